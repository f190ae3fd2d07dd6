package docgen

import (
	"fmt"
	"time"

	"golang.org/x/exp/maps"
)

// DefaultDocumentID is the '_id' of the document created by 'DocParameter' when no document is given.
const DefaultDocumentID = "testId"

// now is overridden in tests.
var now = time.Now

// DocParameter wraps the given JSON text as '{"doc": <text>}', the shape of an action parameter. An empty 'doc' is
// replaced with a document containing the default id and the current date.
func DocParameter(doc string) Document {
	if doc == "" {
		doc = newDocument(DefaultDocumentID).String()
	}

	return Document{"doc": doc}
}

// DocumentArray returns 'n' documents with the ids 'testId1' to 'testIdN', each one stamped with the current date.
func DocumentArray(n int) []Document {
	docs := make([]Document, 0, max(n, 0))

	for i := 1; i <= n; i++ {
		docs = append(docs, newDocument(fmt.Sprintf("%s%d", DefaultDocumentID, i)))
	}

	return docs
}

// WithIDAndRev returns copies of the given write results where '_id' and '_rev' are set from 'id' and 'rev'; this
// reshapes the output of a bulk write so that it may be used as the input of another.
//
// NOTE: Fields which are absent in an element are not set on its copy.
func WithIDAndRev(docs []Document) []Document {
	copied := make([]Document, 0, len(docs))

	for _, doc := range docs {
		clone := maps.Clone(doc)
		if clone == nil {
			clone = make(Document)
		}

		if id, ok := doc["id"]; ok {
			clone["_id"] = id
		}

		if rev, ok := doc["rev"]; ok {
			clone["_rev"] = rev
		}

		copied = append(copied, clone)
	}

	return copied
}

// WithDeleted returns the result of 'WithIDAndRev' with '_deleted' set on every element, producing the payload of a
// bulk delete.
func WithDeleted(docs []Document) []Document {
	copied := WithIDAndRev(docs)

	for _, doc := range copied {
		doc["_deleted"] = true
	}

	return copied
}

func newDocument(id string) Document {
	return Document{"_id": id, "date": now().Format(time.UnixDate)}
}
