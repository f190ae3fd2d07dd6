// Package fsutil contains the filesystem helpers used to locate and read fixture files.
package fsutil

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
)

// FileExists returns a boolean indicating whether a regular file exists at the provided path; a directory at the path
// results in an 'ErrNotFile' error.
func FileExists(path string) (bool, error) {
	return exists(path, false)
}

// DirExists returns a boolean indicating whether a directory exists at the provided path; a file at the path results
// in an 'ErrNotDir' error.
func DirExists(path string) (bool, error) {
	return exists(path, true)
}

func exists(path string, dir bool) (bool, error) {
	stats, err := os.Stat(path)
	if err != nil {
		return false, ignoreINE(err)
	}

	switch {
	case dir && !stats.IsDir():
		return false, ErrNotDir
	case !dir && stats.IsDir():
		return false, ErrNotFile
	}

	return true, nil
}

// ReadFile returns the contents of the regular file at the provided path.
//
// NOTE: A directory at the given path results in an 'ErrNotFile' error, a missing file in an 'os.ErrNotExist' error.
func ReadFile(path string) ([]byte, error) {
	ok, err := FileExists(path)
	if err != nil {
		return nil, fmt.Errorf("failed to check if '%s' exists: %w", path, err)
	}

	if !ok {
		return nil, fmt.Errorf("failed to read '%s': %w", path, os.ErrNotExist)
	}

	return os.ReadFile(path)
}

// ReadJSONFile decodes the JSON file at the provided path into the given value.
func ReadJSONFile(path string, data any) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	err = jsoniter.NewDecoder(file).Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode '%s': %w", path, err)
	}

	return nil
}
