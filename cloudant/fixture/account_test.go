package fixture

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/couchbase/tools-fixture/cloudant/credential"
	"github.com/couchbase/tools-fixture/cloudant/docgen"
	"github.com/couchbase/tools-fixture/testutil"
)

var errNoDatabase = docgen.Document{"error": "not_found", "reason": "Database does not exist."}

// rejectedBody is sent verbatim, its key order and spacing differ from a re-encoded document.
const rejectedBody = `{"reason": "Try again later.", "error": "rejected"}`

// fakeAccount is an in-memory account which implements the subset of the CouchDB API used by a fixture.
type fakeAccount struct {
	t *testing.T

	mu       sync.Mutex
	user     string
	password string
	dbs      map[string]map[string]docgen.Document
	revs     int

	// createFaults is the number of create database requests which will have their connection closed.
	createFaults int

	// createStatus, when set, is returned (with an error body) for every create database request.
	createStatus int

	// deleteStatus, when set, is returned for every delete database request without deleting the database; this
	// simulates a delete which hasn't propagated yet.
	deleteStatus int

	creates int
	deletes int

	// compressed is the number of requests which had a gzip encoded body.
	compressed int
}

func newFakeAccount(t *testing.T) *fakeAccount {
	return &fakeAccount{t: t, user: "u", password: "p", dbs: make(map[string]map[string]docgen.Document)}
}

// start serves the account over plain HTTP; keep alives are disabled so that closed connections aren't transparently
// retried by the client transport.
func (f *fakeAccount) start(t *testing.T) *httptest.Server {
	server := httptest.NewUnstartedServer(f)
	server.Config.SetKeepAlivesEnabled(false)
	server.Start()

	t.Cleanup(server.Close)

	return server
}

func (f *fakeAccount) exists(dbName string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.dbs[dbName]

	return ok
}

func (f *fakeAccount) respond(writer http.ResponseWriter, status int, body any) {
	writer.Header().Set("Content-Type", "application/json")

	if doc, ok := body.(docgen.Document); ok && doc.Rev() != "" {
		writer.Header().Set("ETag", `"`+doc.Rev()+`"`)
	}

	writer.WriteHeader(status)
	testutil.EncodeJSON(f.t, writer, body)
}

func (f *fakeAccount) compressedRequests() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.compressed
}

// body returns the body of the given request, decoding it if it was gzip encoded; the caller must hold the lock.
func (f *fakeAccount) body(request *http.Request) io.Reader {
	if request.Header.Get("Content-Encoding") != "gzip" {
		return request.Body
	}

	f.compressed++

	reader, err := gzip.NewReader(request.Body)
	require.NoError(f.t, err)

	return reader
}

// nextRev returns a new revision, the caller must hold the lock.
func (f *fakeAccount) nextRev(generation int) string {
	f.revs++
	return fmt.Sprintf("%d-%032x", generation, f.revs)
}

func (f *fakeAccount) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	parts := strings.SplitN(strings.TrimPrefix(request.URL.Path, "/"), "/", 3)

	if len(parts) == 1 && request.Method == http.MethodPut && f.createFault(writer) {
		return
	}

	username, password, ok := request.BasicAuth()
	if !ok || username != f.user || password != f.password {
		f.respond(writer, http.StatusUnauthorized,
			docgen.Document{"error": "unauthorized", "reason": "Name or password is incorrect."})

		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch len(parts) {
	case 1:
		f.serveDatabase(writer, request, parts[0])
	case 2:
		f.serveDocument(writer, request, parts[0], parts[1])
	case 3:
		f.serveAttachment(writer, request, parts[0], parts[1], parts[2])
	}
}

// createFault returns true if the connection of a create request was closed.
func (f *fakeAccount) createFault(writer http.ResponseWriter) bool {
	f.mu.Lock()
	f.creates++
	fault := f.createFaults > 0
	if fault {
		f.createFaults--
	}
	f.mu.Unlock()

	if !fault {
		return false
	}

	hijacker, ok := writer.(http.Hijacker)
	require.True(f.t, ok)

	conn, _, err := hijacker.Hijack()
	require.NoError(f.t, err)
	require.NoError(f.t, conn.Close())

	return true
}

func (f *fakeAccount) serveDatabase(writer http.ResponseWriter, request *http.Request, dbName string) {
	docs, exists := f.dbs[dbName]

	switch request.Method {
	case http.MethodPut:
		if f.createStatus != 0 {
			writer.Header().Set("Content-Type", "application/json")
			writer.WriteHeader(f.createStatus)
			_, _ = writer.Write([]byte(rejectedBody))

			return
		}

		if exists {
			f.respond(writer, http.StatusPreconditionFailed, docgen.Document{
				"error":  "file_exists",
				"reason": "The database could not be created, the file already exists.",
			})

			return
		}

		f.dbs[dbName] = make(map[string]docgen.Document)
		f.respond(writer, http.StatusCreated, docgen.Document{"ok": true})
	case http.MethodDelete:
		f.deletes++

		if f.deleteStatus != 0 {
			f.respond(writer, f.deleteStatus, docgen.Document{"error": "timeout", "reason": "The request timed out."})
			return
		}

		if !exists {
			f.respond(writer, http.StatusNotFound, errNoDatabase)
			return
		}

		delete(f.dbs, dbName)
		f.respond(writer, http.StatusOK, docgen.Document{"ok": true})
	case http.MethodGet:
		if !exists {
			f.respond(writer, http.StatusNotFound, errNoDatabase)
			return
		}

		f.respond(writer, http.StatusOK, docgen.Document{"db_name": dbName, "doc_count": len(docs)})
	case http.MethodPost:
		if !exists {
			f.respond(writer, http.StatusNotFound, errNoDatabase)
			return
		}

		var doc docgen.Document

		testutil.DecodeJSON(f.t, f.body(request), &doc)

		f.respond(writer, http.StatusCreated, f.write(docs, doc))
	}
}

// write stores the given document returning the CouchDB style result, the caller must hold the lock.
func (f *fakeAccount) write(docs map[string]docgen.Document, doc docgen.Document) docgen.Document {
	id := doc.ID()
	if id == "" {
		id = uuid.NewString()
	}

	existing, ok := docs[id]

	// A new document must not have a revision, an existing one must match
	if ok != (doc.Rev() != "") || (ok && existing.Rev() != doc.Rev()) {
		return docgen.Document{"id": id, "error": "conflict", "reason": "Document update conflict."}
	}

	if doc.Bool("_deleted") {
		delete(docs, id)
		return docgen.Document{"ok": true, "id": id, "rev": f.nextRev(2)}
	}

	stored := docgen.Document{}
	for key, value := range doc {
		stored[key] = value
	}

	generation := 1
	if ok {
		generation = 2
	}

	stored["_id"] = id
	stored["_rev"] = f.nextRev(generation)
	docs[id] = stored

	return docgen.Document{"ok": true, "id": id, "rev": stored["_rev"]}
}

func (f *fakeAccount) serveDocument(writer http.ResponseWriter, request *http.Request, dbName, id string) {
	docs, exists := f.dbs[dbName]
	if !exists {
		f.respond(writer, http.StatusNotFound, errNoDatabase)
		return
	}

	switch {
	case request.Method == http.MethodPost && id == "_bulk_docs":
		require.Equal(f.t, "true", request.URL.Query().Get("include_docs"))

		var body struct {
			Docs []docgen.Document `json:"docs"`
		}

		testutil.DecodeJSON(f.t, f.body(request), &body)

		results := make([]docgen.Document, 0, len(body.Docs))
		for _, doc := range body.Docs {
			results = append(results, f.write(docs, doc))
		}

		f.respond(writer, http.StatusCreated, results)
	case request.Method == http.MethodPost && id == "_index":
		var definition docgen.Document

		testutil.DecodeJSON(f.t, f.body(request), &definition)

		if _, ok := definition["index"]; !ok {
			f.respond(writer, http.StatusBadRequest,
				docgen.Document{"error": "bad_request", "reason": "Missing index."})
			return
		}

		f.respond(writer, http.StatusOK, docgen.Document{"result": "created", "id": "_design/idx", "name": "idx"})
	case request.Method == http.MethodGet:
		doc, ok := docs[id]
		if !ok {
			f.respond(writer, http.StatusNotFound, docgen.Document{"error": "not_found", "reason": "missing"})
			return
		}

		f.respond(writer, http.StatusOK, doc)
	case request.Method == http.MethodDelete:
		result := f.write(docs, docgen.Document{"_id": id, "_rev": request.URL.Query().Get("rev"), "_deleted": true})
		if result.Str("error") != "" {
			f.respond(writer, http.StatusConflict, result)
			return
		}

		f.respond(writer, http.StatusOK, result)
	}
}

func (f *fakeAccount) serveAttachment(writer http.ResponseWriter, request *http.Request, dbName, id, name string) {
	docs, exists := f.dbs[dbName]
	if !exists || request.Method != http.MethodPut {
		f.respond(writer, http.StatusNotFound, errNoDatabase)
		return
	}

	content := testutil.ReadAll(f.t, f.body(request))

	f.respond(writer, http.StatusCreated, f.write(docs, docgen.Document{
		"_id": id,
		"_attachments": map[string]any{
			name: map[string]any{"content_type": request.Header.Get("Content-Type"), "length": len(content)},
		},
	}))
}

// newTestManager returns a manager which sends requests to the given account, and a credential for a unique database.
func newTestManager(t *testing.T, account *fakeAccount, options ManagerOptions) (*Manager, credential.Credential) {
	server := account.start(t)

	options.BaseURL = server.URL

	manager, err := NewManager(options)
	require.NoError(t, err)

	t.Cleanup(manager.Close)

	return manager, credential.New(account.user, account.password, credential.UniqueDBName("test-db"))
}
