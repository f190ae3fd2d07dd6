// Package docgen builds the JSON documents used by fixture tests. Every function returns new values, inputs are never
// modified.
package docgen

import (
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// json sorts map keys so that encoded documents are stable.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// ErrEmpty is returned when parsing blank text.
	ErrEmpty = errors.New("empty document")

	// ErrNotObject is returned when parsing valid JSON which isn't an object (or an array of objects).
	ErrNotObject = errors.New("not a JSON object")
)

// Document is an opaque JSON object, only the identifying fields are interpreted.
type Document map[string]any

// ParseDocument parses the given text as a single JSON object.
func ParseDocument(text string) (Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmpty
	}

	var doc Document

	err := json.UnmarshalFromString(text, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	if doc == nil {
		return nil, ErrNotObject
	}

	return doc, nil
}

// ParseDocuments parses the given text as a JSON array of objects.
func ParseDocuments(text string) ([]Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmpty
	}

	var docs []Document

	err := json.UnmarshalFromString(text, &docs)
	if err != nil {
		return nil, fmt.Errorf("failed to parse documents: %w", err)
	}

	if docs == nil {
		return nil, ErrNotObject
	}

	for index, doc := range docs {
		if doc == nil {
			return nil, fmt.Errorf("element %d: %w", index, ErrNotObject)
		}
	}

	return docs, nil
}

// ID returns the '_id' of the document, falling back to 'id' as found in write results.
func (d Document) ID() string {
	return d.firstString("_id", "id")
}

// Rev returns the '_rev' of the document, falling back to 'rev' as found in write results.
func (d Document) Rev() string {
	return d.firstString("_rev", "rev")
}

// Bool returns the value of the given field, when it's a boolean.
func (d Document) Bool(key string) bool {
	value, _ := d[key].(bool)
	return value
}

// Str returns the value of the given field, when it's a string.
func (d Document) Str(key string) string {
	value, _ := d[key].(string)
	return value
}

// String returns the document encoded as JSON with sorted keys.
func (d Document) String() string {
	encoded, err := json.MarshalToString(d)
	if err != nil {
		return fmt.Sprintf("%v", map[string]any(d))
	}

	return encoded
}

func (d Document) firstString(keys ...string) string {
	for _, key := range keys {
		if value := d.Str(key); value != "" {
			return value
		}
	}

	return ""
}
