// Package docclient defines the document client used by a fixture to write documents; connections are short lived,
// each fixture operation connects, opens the database, performs a single write and then closes the connection.
package docclient

import (
	"context"
	"io"
)

//go:generate mockgen -source=docclient.go -destination=mock_docclient.go -package=docclient

// Result identifies the revision of a document produced by a write.
type Result struct {
	ID  string
	Rev string
}

// Connector creates authenticated connections to an account.
type Connector interface {
	Connect(ctx context.Context, user, password string) (Conn, error)
}

// Conn is a connection to an account, which must be closed once it's no longer required.
type Conn interface {
	// Open returns a handle to the given database, creating it first when 'create' is true and it doesn't exist.
	Open(ctx context.Context, dbName string, create bool) (Database, error)
	Close() error
}

// Database performs document writes against a single database.
type Database interface {
	// Post creates a new document, the server assigns an id when the document doesn't have one.
	Post(ctx context.Context, doc any) (Result, error)

	// Remove deletes the given revision of a document.
	Remove(ctx context.Context, id, rev string) (Result, error)

	// SaveAttachment streams the reader as a named attachment onto a newly created document.
	SaveAttachment(ctx context.Context, reader io.Reader, name, contentType string) (Result, error)
}
