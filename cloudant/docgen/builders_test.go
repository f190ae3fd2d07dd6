package docgen

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedNow(t *testing.T) time.Time {
	fixed := time.Date(2020, time.January, 2, 3, 4, 5, 0, time.UTC)

	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	return fixed
}

func TestDocParameter(t *testing.T) {
	fixed := fixedNow(t)

	t.Run("Default", func(t *testing.T) {
		param := DocParameter("")

		text, ok := param["doc"].(string)
		require.True(t, ok)

		doc, err := ParseDocument(text)
		require.NoError(t, err)
		require.Equal(t, Document{"_id": DefaultDocumentID, "date": fixed.Format(time.UnixDate)}, doc)
	})

	t.Run("Provided", func(t *testing.T) {
		require.Equal(t, Document{"doc": `{"a":1}`}, DocParameter(`{"a":1}`))
	})
}

func TestDocumentArray(t *testing.T) {
	fixed := fixedNow(t)

	type test struct {
		name string
		n    int
	}

	tests := []*test{
		{name: "Zero"},
		{name: "Negative", n: -1},
		{name: "One", n: 1},
		{name: "Many", n: 10},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			docs := DocumentArray(test.n)
			require.NotNil(t, docs)
			require.Len(t, docs, max(test.n, 0))

			for index, doc := range docs {
				require.Equal(t, fmt.Sprintf("testId%d", index+1), doc.ID())
				require.Equal(t, fixed.Format(time.UnixDate), doc["date"])
			}
		})
	}
}

func TestDocumentArrayDate(t *testing.T) {
	for _, doc := range DocumentArray(3) {
		require.NotEmpty(t, doc.Str("date"))
	}
}

func TestWithIDAndRev(t *testing.T) {
	results := []Document{
		{"ok": true, "id": "x", "rev": "1-a"},
		{"id": "y", "rev": "1-b", "extra": "kept"},
		{"id": "z", "error": "conflict", "reason": "Document update conflict."},
	}

	docs := WithIDAndRev(results)
	require.Equal(t, []Document{
		{"ok": true, "id": "x", "rev": "1-a", "_id": "x", "_rev": "1-a"},
		{"id": "y", "rev": "1-b", "extra": "kept", "_id": "y", "_rev": "1-b"},
		{"id": "z", "error": "conflict", "reason": "Document update conflict.", "_id": "z"},
	}, docs)

	for index, doc := range docs {
		require.Equal(t, results[index]["id"], doc["_id"])
	}

	// The input must not be modified
	require.Equal(t, Document{"ok": true, "id": "x", "rev": "1-a"}, results[0])

	require.Empty(t, WithIDAndRev(nil))
	require.Equal(t, []Document{{}}, WithIDAndRev([]Document{nil}))
}

func TestWithDeleted(t *testing.T) {
	results := []Document{{"id": "x", "rev": "1-a"}, {"id": "y", "rev": "1-b"}}

	deleted := WithDeleted(results)
	require.Equal(t, []Document{
		{"id": "x", "rev": "1-a", "_id": "x", "_rev": "1-a", "_deleted": true},
		{"id": "y", "rev": "1-b", "_id": "y", "_rev": "1-b", "_deleted": true},
	}, deleted)

	require.Equal(t, deleted, WithDeleted(deleted))
	require.NotContains(t, results[0], "_deleted")
}
