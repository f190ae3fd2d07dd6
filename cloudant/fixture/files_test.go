package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestFiles(t *testing.T, files map[string]string) Files {
	fixtures := Files{Root: t.TempDir()}

	for name, contents := range files {
		require.NoError(t, os.MkdirAll(filepath.Dir(fixtures.Path(name)), 0o755))
		require.NoError(t, os.WriteFile(fixtures.Path(name), []byte(contents), 0o644))
	}

	return fixtures
}

func TestFilesValidate(t *testing.T) {
	require.NoError(t, newTestFiles(t, nil).Validate())
	require.Error(t, Files{Root: filepath.Join(t.TempDir(), "missing")}.Validate())
}

func TestFilesPath(t *testing.T) {
	files := Files{Root: filepath.Join("project", "root")}
	require.Equal(t, filepath.Join("project", "root", "tests", "dat", "attach.txt"), files.Path(AttachmentFile))
}

func TestFilesReadFile(t *testing.T) {
	files := newTestFiles(t, map[string]string{AttachmentFile: "attached"})

	text, err := files.ReadFile(AttachmentFile)
	require.NoError(t, err)
	require.Equal(t, "attached", text)

	_, err = files.ReadFile(SearchDesignDocFile)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFilesDesignFromFile(t *testing.T) {
	type test struct {
		name      string
		contents  string
		expected  string
		malformed bool
	}

	tests := []*test{
		{
			name:     "Valid",
			contents: `{"_id":"_design/filters","filters":{"even":"function(doc) { return true; }"}}`,
			expected: "_design/filters",
		},
		{
			name:      "NotJSON",
			contents:  "function(doc) {}",
			malformed: true,
		},
		{
			name:      "Empty",
			malformed: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			files := newTestFiles(t, map[string]string{FilterDesignDocFile: test.contents})

			doc, err := files.DesignFromFile(FilterDesignDocFile)
			if test.malformed {
				var malformed *MalformedInputError
				require.ErrorAs(t, err, &malformed)

				return
			}

			require.NoError(t, err)
			require.Equal(t, test.expected, doc.ID())
		})
	}
}
