package fixture

import (
	"errors"
	"fmt"

	"github.com/couchbase/tools-fixture/httptools"
)

// SetUpError is returned when 'SetUp' couldn't create the database, the underlying error is available using
// 'errors.Unwrap'.
type SetUpError struct {
	DBName string
	err    error
}

func (e *SetUpError) Error() string {
	return fmt.Sprintf("failed to create database %s", e.DBName)
}

func (e *SetUpError) Unwrap() error {
	return e.err
}

// UnexpectedStatusError is returned by strict operations when the service responds with a status code other than the
// one(s) which indicate success.
type UnexpectedStatusError struct {
	Method   httptools.Method
	Endpoint httptools.Endpoint
	Status   int
	Body     []byte
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d for '%s' request to '%s': %s", e.Status, e.Method, e.Endpoint,
		httptools.Truncate(e.Body, httptools.DiagnosticLength))
}

// MalformedInputError is returned when the JSON text given to an operation can't be parsed as a document.
type MalformedInputError struct {
	Input string
	err   error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input '%s': %s", truncate(e.Input), e.err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.err
}

// MalformedResponseError is returned when the body of a response isn't the expected JSON. Transport faults and
// malformed responses are both treated as transient by 'SetUp'.
type MalformedResponseError struct {
	Status int
	Body   []byte
	err    error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response with status code %d '%s': %s", e.Status,
		httptools.Truncate(e.Body, httptools.DiagnosticLength), e.err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.err
}

// DeleteFailedError is returned when the document client fails to remove a document.
type DeleteFailedError struct {
	ID  string
	Rev string
	err error
}

func (e *DeleteFailedError) Error() string {
	return fmt.Sprintf("failed to delete document '%s' at revision '%s': %s", e.ID, e.Rev, e.err)
}

func (e *DeleteFailedError) Unwrap() error {
	return e.err
}

// IsDeleteFailed returns a boolean indicating whether the given error is a 'DeleteFailedError'.
func IsDeleteFailed(err error) bool {
	var deleteFailed *DeleteFailedError
	return errors.As(err, &deleteFailed)
}

func truncate(s string) string {
	return httptools.Truncate([]byte(s), httptools.DiagnosticLength)
}
