package docclient

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-kivik/kivik/v4"
	"github.com/go-kivik/kivik/v4/couchdb"
	"github.com/google/uuid"
)

// Kivik is a 'Connector' backed by the kivik CouchDB driver.
type Kivik struct {
	// AccountURL returns the URL of the account for the given user e.g. 'https://user.cloudant.com:443'.
	AccountURL func(user string) string

	// Client is used to send requests, allowing the transport to be shared with the rest of the fixture.
	Client *http.Client
}

var _ Connector = (*Kivik)(nil)

func (k *Kivik) Connect(_ context.Context, user, password string) (Conn, error) {
	// Request bodies are sent uncompressed, the service doesn't accept gzipped attachments
	options := []kivik.Option{couchdb.BasicAuth(user, password), couchdb.OptionNoRequestCompression()}

	// The HTTP client must be supplied first, authentication is applied to it
	if k.Client != nil {
		options = append([]kivik.Option{couchdb.OptionHTTPClient(k.Client)}, options...)
	}

	client, err := kivik.New("couch", k.AccountURL(user), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &kivikConn{client: client}, nil
}

type kivikConn struct {
	client *kivik.Client
}

func (c *kivikConn) Open(ctx context.Context, dbName string, create bool) (Database, error) {
	if create {
		err := c.client.CreateDB(ctx, dbName)
		if err != nil && kivik.HTTPStatus(err) != http.StatusPreconditionFailed {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	}

	db := c.client.DB(dbName)

	err := db.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &kivikDatabase{db: db}, nil
}

func (c *kivikConn) Close() error {
	return c.client.Close()
}

type kivikDatabase struct {
	db *kivik.DB
}

func (d *kivikDatabase) Post(ctx context.Context, doc any) (Result, error) {
	id, rev, err := d.db.CreateDoc(ctx, doc)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create document: %w", err)
	}

	return Result{ID: id, Rev: rev}, nil
}

func (d *kivikDatabase) Remove(ctx context.Context, id, rev string) (Result, error) {
	newRev, err := d.db.Delete(ctx, id, rev)
	if err != nil {
		return Result{}, fmt.Errorf("failed to delete document '%s': %w", id, err)
	}

	return Result{ID: id, Rev: newRev}, nil
}

func (d *kivikDatabase) SaveAttachment(
	ctx context.Context, reader io.Reader, name, contentType string,
) (Result, error) {
	id := uuid.NewString()

	rev, err := d.db.PutAttachment(ctx, id, &kivik.Attachment{
		Filename:    name,
		ContentType: contentType,
		Content:     io.NopCloser(reader),
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to save attachment '%s': %w", name, err)
	}

	return Result{ID: id, Rev: rev}, nil
}
