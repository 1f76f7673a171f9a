package crawler

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrRootNotDirectory is returned when the configured site root exists
// but is not a directory.
var ErrRootNotDirectory = errors.New("site root is not a directory")

// DirectoryAccessError reports that the site root could not be read.
// It is fatal: no file has been processed when it occurs.
type DirectoryAccessError struct {
	// Root is the directory that could not be accessed.
	Root string

	// Err is the underlying filesystem error.
	Err error
}

// Error implements the error interface.
func (e *DirectoryAccessError) Error() string {
	return fmt.Sprintf("cannot access site root %s: %v", e.Root, e.Err)
}

// Unwrap returns the underlying filesystem error.
func (e *DirectoryAccessError) Unwrap() error {
	return e.Err
}

// DiscoverHTML recursively lists every file ending in .html under root
// and returns their absolute paths in lexical walk order. The extension
// match is case-insensitive so generators that emit .HTML are handled.
//
// A missing or unreadable root yields a *DirectoryAccessError. Errors
// on subdirectories encountered mid-walk are also fatal: a partial file
// list would silently understate the report.
func DiscoverHTML(root string) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &DirectoryAccessError{Root: root, Err: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, &DirectoryAccessError{Root: abs, Err: err}
	}
	if !info.IsDir() {
		return nil, &DirectoryAccessError{Root: abs, Err: ErrRootNotDirectory}
	}

	var files []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".html") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, &DirectoryAccessError{Root: abs, Err: err}
	}

	return files, nil
}
