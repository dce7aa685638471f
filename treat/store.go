/*******************************************************************************
 * Copyright (c) 2025 the omdctk authors.
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package treat

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNotADirectory = Error("path is not a directory")
	ErrSameStore     = Error("input and output locations are the same")
)

// FileStore is the minimal file access the treatment engine needs: listing
// by suffix, reading and creating. Input stores are never written to.
type FileStore interface {
	// List returns the names of files whose name ends with the given
	// suffix.
	List(suffix string) ([]string, error)

	// Open opens the named file for reading.
	Open(name string) (io.ReadCloser, error)

	// Create creates or truncates the named file for writing.
	Create(name string) (io.WriteCloser, error)

	// Location identifies where the store's files live, for same-store
	// checks and user messages.
	Location() string
}

// DirStore is a FileStore over a local directory.
type DirStore struct {
	dir string
}

// NewDirStore returns a DirStore for the given directory, which must exist.
// The directory path is resolved so that two routes to the same location
// compare equal via Location().
func NewDirStore(dir string) (*DirStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return nil, ErrNotADirectory
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	if resolved, rerr := filepath.EvalSymlinks(abs); rerr == nil {
		abs = resolved
	}

	return &DirStore{dir: abs}, nil
}

// List returns the names of regular files in the directory ending with the
// given suffix.
func (d *DirStore) List(suffix string) ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, err
	}

	var names []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if strings.HasSuffix(entry.Name(), suffix) {
			names = append(names, entry.Name())
		}
	}

	return names, nil
}

// Open opens the named file in the directory for reading.
func (d *DirStore) Open(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(d.dir, name))
}

// Create creates or truncates the named file in the directory.
func (d *DirStore) Create(name string) (io.WriteCloser, error) {
	return os.Create(filepath.Join(d.dir, name))
}

// Location returns the resolved directory path.
func (d *DirStore) Location() string {
	return d.dir
}
