package fixture

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/couchbase/tools-fixture/cloudant/credential"
	"github.com/couchbase/tools-fixture/cloudant/docclient"
	"github.com/couchbase/tools-fixture/cloudant/docgen"
	"github.com/couchbase/tools-fixture/fsutil"
	"github.com/couchbase/tools-fixture/httptools"
	"github.com/couchbase/tools-fixture/log"
)

// CreateDocument parses the given JSON object and creates it as a new document, returning '{ok, id, rev}'.
func (m *Manager) CreateDocument(
	ctx context.Context, cred credential.Credential, text string,
) (docgen.Document, error) {
	if cred.DBName == "" {
		return nil, &credential.ConfigurationError{Property: credential.PropertyDBName}
	}

	doc, err := docgen.ParseDocument(text)
	if err != nil {
		return nil, &MalformedInputError{Input: text, err: err}
	}

	var result docclient.Result

	err = m.withDatabase(ctx, cred, func(db docclient.Database) error {
		result, err = db.Post(ctx, doc)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	m.logger.Debugf("(Fixture) Created document '%s' at revision '%s' in database %s", result.ID, result.Rev,
		log.UserDataValue(cred.DBName))

	return docgen.Document{"ok": true, "id": result.ID, "rev": result.Rev}, nil
}

// GetDocument returns the document with the given id. Error bodies (e.g. 'not_found') are returned as the document
// rather than as an error, so that tests may make assertions about them.
func (m *Manager) GetDocument(ctx context.Context, cred credential.Credential, id string) (docgen.Document, error) {
	if cred.DBName == "" {
		return nil, &credential.ConfigurationError{Property: credential.PropertyDBName}
	}

	response, err := m.execute(ctx, cred, &httptools.Request{
		Method:             httptools.MethodGet,
		Endpoint:           endpointDocument.Format(cred.DBName, id),
		ExpectedStatusCode: httptools.AnyStatusCode,
	}, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return parse(response)
}

// DeleteDocument removes the revision of the document identified by its '_id' and '_rev' fields, returning
// '{ok, id, rev}' where 'rev' is the revision of the deletion.
func (m *Manager) DeleteDocument(
	ctx context.Context, cred credential.Credential, doc docgen.Document,
) (docgen.Document, error) {
	if cred.DBName == "" {
		return nil, &credential.ConfigurationError{Property: credential.PropertyDBName}
	}

	id, rev := doc.ID(), doc.Rev()
	if id == "" || rev == "" {
		return nil, &MalformedInputError{Input: doc.String(), err: fmt.Errorf("document requires an id and revision")}
	}

	var result docclient.Result

	err := m.withDatabase(ctx, cred, func(db docclient.Database) error {
		var err error

		result, err = db.Remove(ctx, id, rev)

		return err
	})
	if err != nil {
		m.logger.Errorf("(Fixture) Failed to delete document '%s' from database %s: %s", id,
			log.UserDataValue(cred.DBName), err)

		return nil, &DeleteFailedError{ID: id, Rev: rev, err: err}
	}

	return docgen.Document{"ok": true, "id": result.ID, "rev": result.Rev}, nil
}

// BulkDocuments writes the given documents in a single request, returning one result per document. Partial failure is
// normal, each result carries either '{id, rev}' or '{id, error, reason}'.
func (m *Manager) BulkDocuments(
	ctx context.Context, cred credential.Credential, docs []docgen.Document,
) ([]docgen.Document, error) {
	if cred.DBName == "" {
		return nil, &credential.ConfigurationError{Property: credential.PropertyDBName}
	}

	if docs == nil {
		docs = make([]docgen.Document, 0)
	}

	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(map[string]any{"docs": docs})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal documents: %w", err)
	}

	request := &httptools.Request{
		Method:             httptools.MethodPost,
		Endpoint:           endpointBulkDocs.Format(cred.DBName),
		QueryParameters:    url.Values{"include_docs": {"true"}},
		ContentType:        httptools.ContentTypeJSON,
		Body:               body,
		ExpectedStatusCode: httptools.AnyStatusCode,
	}

	response, err := m.execute(ctx, cred, request, true)
	if err != nil {
		return nil, fmt.Errorf("failed to write documents: %w", err)
	}

	if response.StatusCode != http.StatusCreated && response.StatusCode != http.StatusAccepted {
		return nil, &UnexpectedStatusError{
			Method:   request.Method,
			Endpoint: request.Endpoint,
			Status:   response.StatusCode,
			Body:     response.Body,
		}
	}

	results, err := docgen.ParseDocuments(string(response.Body))
	if err != nil {
		return nil, &MalformedResponseError{Status: response.StatusCode, Body: response.Body, err: err}
	}

	return results, nil
}

// CreateIndex creates the given index definition, any status other than 200 returns an 'UnexpectedStatusError'.
func (m *Manager) CreateIndex(ctx context.Context, cred credential.Credential, text string) (docgen.Document, error) {
	if cred.DBName == "" {
		return nil, &credential.ConfigurationError{Property: credential.PropertyDBName}
	}

	definition, err := docgen.ParseDocument(text)
	if err != nil {
		return nil, &MalformedInputError{Input: text, err: err}
	}

	request := &httptools.Request{
		Method:             httptools.MethodPost,
		Endpoint:           endpointIndex.Format(cred.DBName),
		ContentType:        httptools.ContentTypeJSON,
		Body:               []byte(definition.String()),
		ExpectedStatusCode: httptools.AnyStatusCode,
	}

	response, err := m.execute(ctx, cred, request, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return nil, &UnexpectedStatusError{
			Method:   request.Method,
			Endpoint: request.Endpoint,
			Status:   response.StatusCode,
			Body:     response.Body,
		}
	}

	return parse(response)
}

// CreateDocumentWithAttachment streams the file at the given path as a 'text/plain' attachment, named after the file,
// onto a newly created document.
func (m *Manager) CreateDocumentWithAttachment(
	ctx context.Context, cred credential.Credential, path string,
) (docclient.Result, error) {
	if cred.DBName == "" {
		return docclient.Result{}, &credential.ConfigurationError{Property: credential.PropertyDBName}
	}

	exists, err := fsutil.FileExists(path)
	if err != nil {
		return docclient.Result{}, fmt.Errorf("failed to check if attachment exists: %w", err)
	}

	if !exists {
		return docclient.Result{}, fmt.Errorf("attachment '%s': %w", path, os.ErrNotExist)
	}

	file, err := os.Open(path)
	if err != nil {
		return docclient.Result{}, fmt.Errorf("failed to open attachment: %w", err)
	}
	defer file.Close()

	var result docclient.Result

	err = m.withDatabase(ctx, cred, func(db docclient.Database) error {
		result, err = db.SaveAttachment(ctx, file, filepath.Base(path), attachmentContent)
		return err
	})
	if err != nil {
		return docclient.Result{}, fmt.Errorf("failed to save attachment: %w", err)
	}

	m.logger.Debugf("(Fixture) Created document '%s' with attachment '%s'", result.ID, filepath.Base(path))

	return result, nil
}
