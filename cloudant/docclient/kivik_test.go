package docclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/couchbase/tools-fixture/httptools"
	"github.com/couchbase/tools-fixture/testutil"
)

// writeResult responds like CouchDB does to a successful document write.
func writeResult(t *testing.T, status int, id, rev string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		username, password, ok := request.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "u", username)
		require.Equal(t, "p", password)

		writer.Header().Set("Content-Type", "application/json")
		writer.Header().Set("ETag", `"`+rev+`"`)
		writer.WriteHeader(status)

		testutil.EncodeJSON(t, writer, map[string]any{"ok": true, "id": id, "rev": rev})
	}
}

func newTestKivik(t *testing.T, handlers httptools.TestHandlers) *Kivik {
	server := httptest.NewServer(http.HandlerFunc(handlers.Handle))
	t.Cleanup(server.Close)

	return &Kivik{AccountURL: func(_ string) string { return server.URL }, Client: server.Client()}
}

func openTestDatabase(t *testing.T, connector Connector, create bool) Database {
	conn, err := connector.Connect(context.Background(), "u", "p")
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, conn.Close()) })

	db, err := conn.Open(context.Background(), "test-db", create)
	require.NoError(t, err)

	return db
}

func TestKivikOpenCreate(t *testing.T) {
	type test struct {
		name   string
		status int
	}

	tests := []*test{
		{
			name:   "Created",
			status: http.StatusCreated,
		},
		{
			name:   "AlreadyExists",
			status: http.StatusPreconditionFailed,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var (
				count    int
				handlers = make(httptools.TestHandlers)
			)

			body := []byte(`{"ok":true}`)
			if test.status == http.StatusPreconditionFailed {
				body = []byte(`{"error":"file_exists","reason":"The database could not be created, ` +
					`the file already exists."}`)
			}

			handlers.Add(http.MethodPut, "/test-db",
				httptools.NewTestHandlerWithCount(&count, httptools.NewTestHandler(t, test.status, body)))

			openTestDatabase(t, newTestKivik(t, handlers), true)
			require.Equal(t, 1, count)
		})
	}
}

func TestKivikOpenCreateFailed(t *testing.T) {
	handlers := make(httptools.TestHandlers)
	handlers.Add(http.MethodPut, "/test-db", httptools.NewTestHandler(t, http.StatusForbidden,
		[]byte(`{"error":"forbidden","reason":"server admin access required"}`)))

	conn, err := newTestKivik(t, handlers).Connect(context.Background(), "u", "p")
	require.NoError(t, err)

	defer conn.Close()

	_, err = conn.Open(context.Background(), "test-db", true)
	require.Error(t, err)
}

func TestKivikPost(t *testing.T) {
	handlers := make(httptools.TestHandlers)
	handlers.Add(http.MethodPost, "/test-db", func(writer http.ResponseWriter, request *http.Request) {
		require.Empty(t, request.Header.Get("Content-Encoding"))

		var doc map[string]any

		testutil.DecodeJSON(t, request.Body, &doc)
		require.Equal(t, map[string]any{"_id": "x", "a": float64(1)}, doc)

		writeResult(t, http.StatusCreated, "x", "1-a")(writer, request)
	})

	result, err := openTestDatabase(t, newTestKivik(t, handlers), false).
		Post(context.Background(), map[string]any{"_id": "x", "a": 1})
	require.NoError(t, err)
	require.Equal(t, Result{ID: "x", Rev: "1-a"}, result)
}

func TestKivikPostConflict(t *testing.T) {
	handlers := make(httptools.TestHandlers)
	handlers.Add(http.MethodPost, "/test-db", httptools.NewTestHandler(t, http.StatusConflict,
		[]byte(`{"error":"conflict","reason":"Document update conflict."}`)))

	_, err := openTestDatabase(t, newTestKivik(t, handlers), false).
		Post(context.Background(), map[string]any{"_id": "x"})
	require.Error(t, err)
}

func TestKivikRemove(t *testing.T) {
	handlers := make(httptools.TestHandlers)
	handlers.Add(http.MethodDelete, "/test-db/x", func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, "1-a", request.URL.Query().Get("rev"))
		writeResult(t, http.StatusOK, "x", "2-b")(writer, request)
	})

	result, err := openTestDatabase(t, newTestKivik(t, handlers), false).Remove(context.Background(), "x", "1-a")
	require.NoError(t, err)
	require.Equal(t, Result{ID: "x", Rev: "2-b"}, result)
}

func TestKivikSaveAttachment(t *testing.T) {
	var (
		path    string
		content []byte
	)

	// The document id is generated, so every path is handled
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, http.MethodPut, request.Method)
		require.Equal(t, "text/plain", request.Header.Get("Content-Type"))
		require.Empty(t, request.Header.Get("Content-Encoding"))

		path = request.URL.Path
		content = testutil.ReadAll(t, request.Body)

		id := strings.Split(strings.TrimPrefix(path, "/test-db/"), "/")[0]
		writeResult(t, http.StatusCreated, id, "1-a")(writer, request)
	}))
	t.Cleanup(server.Close)

	db := openTestDatabase(t, &Kivik{AccountURL: func(_ string) string { return server.URL }}, false)

	result, err := db.SaveAttachment(context.Background(), strings.NewReader("attached"), "attach.txt", "text/plain")
	require.NoError(t, err)
	require.NotEmpty(t, result.ID)
	require.Equal(t, "1-a", result.Rev)
	require.Equal(t, "/test-db/"+result.ID+"/attach.txt", path)
	require.Equal(t, []byte("attached"), content)
}
