package fixture

import (
	"net/http"
	"strings"

	"github.com/couchbase/tools-fixture/cloudant/docgen"
	"github.com/couchbase/tools-fixture/httptools"
)

// Outcome is the result of creating/deleting a database, the status code and body both carry meaning.
type Outcome struct {
	StatusCode int
	Body       docgen.Document

	// Raw is the response body as sent by the service, used in diagnostics.
	Raw []byte
}

// Classification is the interpretation of a create attempt.
type Classification int

const (
	// Created indicates the database was created.
	Created Classification = iota

	// AlreadyExists indicates the database already existed, which is as good as creating it.
	AlreadyExists

	// TransientFailure indicates a transport fault, the attempt should be retried after a pause.
	TransientFailure

	// FatalFailure indicates a failure which won't be fixed by retrying e.g. invalid credentials.
	FatalFailure

	// Rejected indicates the service responded, but didn't create the database.
	Rejected
)

func (c Classification) String() string {
	switch c {
	case Created:
		return "Created"
	case AlreadyExists:
		return "AlreadyExists"
	case TransientFailure:
		return "TransientFailure"
	case FatalFailure:
		return "FatalFailure"
	case Rejected:
		return "Rejected"
	}

	return "Unknown"
}

// Done returns a boolean indicating whether the database exists after an attempt with this classification.
func (c Classification) Done() bool {
	return c == Created || c == AlreadyExists
}

// Classify interprets the result of a create attempt.
//
// The service signals success inconsistently, a 201 status, or an 'ok' body (seen with 200/202). A 'reason'
// containing "exists" means the database was already there e.g. when the previous delete hasn't propagated yet.
func Classify(outcome *Outcome, err error) Classification {
	if err != nil {
		if httptools.IsAuthError(err) {
			return FatalFailure
		}

		return TransientFailure
	}

	if outcome == nil {
		return TransientFailure
	}

	if outcome.StatusCode == http.StatusCreated || outcome.Body.Bool("ok") {
		return Created
	}

	if strings.Contains(outcome.Body.Str("reason"), "exists") {
		return AlreadyExists
	}

	if outcome.StatusCode == http.StatusUnauthorized || outcome.StatusCode == http.StatusForbidden {
		return FatalFailure
	}

	return Rejected
}
