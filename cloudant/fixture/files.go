package fixture

import (
	"fmt"
	"path/filepath"

	"github.com/couchbase/tools-fixture/cloudant/docgen"
	"github.com/couchbase/tools-fixture/fsutil"
)

// Fixture files which are known to exist relative to the root of a project.
const (
	AttachmentFile      = "tests/dat/attach.txt"
	IndexDesignDocFile  = "tests/dat/indexdesigndoc.txt"
	SearchDesignDocFile = "tests/dat/searchdesigndoc.txt"
	FilterDesignDocFile = "tests/dat/filterdesigndoc.txt"
)

// Files locates fixture files relative to an explicit root directory.
type Files struct {
	Root string
}

// Validate returns an error if the root isn't an existing directory.
func (f Files) Validate() error {
	exists, err := fsutil.DirExists(f.Root)
	if err != nil {
		return fmt.Errorf("failed to check fixture root '%s': %w", f.Root, err)
	}

	if !exists {
		return fmt.Errorf("fixture root '%s' does not exist", f.Root)
	}

	return nil
}

// Path returns the path of the given slash separated file, relative to the root.
func (f Files) Path(name string) string {
	return filepath.Join(f.Root, filepath.FromSlash(name))
}

// ReadFile returns the contents of the given fixture file as text.
func (f Files) ReadFile(name string) (string, error) {
	data, err := fsutil.ReadFile(f.Path(name))
	if err != nil {
		return "", fmt.Errorf("failed to read fixture file: %w", err)
	}

	return string(data), nil
}

// DesignFromFile returns the design document stored in the given fixture file.
func (f Files) DesignFromFile(name string) (docgen.Document, error) {
	text, err := f.ReadFile(name)
	if err != nil {
		return nil, err
	}

	doc, err := docgen.ParseDocument(text)
	if err != nil {
		return nil, &MalformedInputError{Input: text, err: err}
	}

	return doc, nil
}
