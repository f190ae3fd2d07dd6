package fixture

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchbase/tools-fixture/cloudant/docgen"
	"github.com/couchbase/tools-fixture/httptools"
)

func TestClassify(t *testing.T) {
	type test struct {
		name     string
		outcome  *Outcome
		err      error
		expected Classification
	}

	tests := []*test{
		{
			name:     "Created",
			outcome:  &Outcome{StatusCode: http.StatusCreated, Body: docgen.Document{"ok": true}},
			expected: Created,
		},
		{
			name:     "CreatedNoBody",
			outcome:  &Outcome{StatusCode: http.StatusCreated},
			expected: Created,
		},
		{
			name:     "AcceptedOK",
			outcome:  &Outcome{StatusCode: http.StatusAccepted, Body: docgen.Document{"ok": true}},
			expected: Created,
		},
		{
			name: "AlreadyExists",
			outcome: &Outcome{
				StatusCode: http.StatusPreconditionFailed,
				Body: docgen.Document{
					"error":  "file_exists",
					"reason": "The database could not be created, the file already exists.",
				},
			},
			expected: AlreadyExists,
		},
		{
			name:     "Unauthorized",
			outcome:  &Outcome{StatusCode: http.StatusUnauthorized, Body: docgen.Document{"error": "unauthorized"}},
			expected: FatalFailure,
		},
		{
			name:     "Forbidden",
			outcome:  &Outcome{StatusCode: http.StatusForbidden, Body: docgen.Document{"error": "forbidden"}},
			expected: FatalFailure,
		},
		{
			name:     "AuthError",
			err:      fmt.Errorf("failed: %w", &httptools.AuthenticationError{}),
			expected: FatalFailure,
		},
		{
			name: "Rejected",
			outcome: &Outcome{
				StatusCode: http.StatusBadRequest,
				Body:       docgen.Document{"error": "illegal_database_name", "reason": "Name: '_x'."},
			},
			expected: Rejected,
		},
		{
			name:     "OKNotTrue",
			outcome:  &Outcome{StatusCode: http.StatusOK, Body: docgen.Document{"ok": false}},
			expected: Rejected,
		},
		{
			name:     "TransportFault",
			err:      assert.AnError,
			expected: TransientFailure,
		},
		{
			name:     "MalformedBody",
			outcome:  &Outcome{StatusCode: http.StatusBadGateway},
			err:      &MalformedResponseError{Status: http.StatusBadGateway, err: assert.AnError},
			expected: TransientFailure,
		},
		{
			name:     "NoOutcome",
			expected: TransientFailure,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, Classify(test.outcome, test.err))
		})
	}
}

func TestClassificationDone(t *testing.T) {
	require.True(t, Created.Done())
	require.True(t, AlreadyExists.Done())
	require.False(t, TransientFailure.Done())
	require.False(t, FatalFailure.Done())
	require.False(t, Rejected.Done())
}

func TestClassificationString(t *testing.T) {
	require.Equal(t, "AlreadyExists", AlreadyExists.String())
	require.Equal(t, "Unknown", Classification(42).String())
}
