// Package storage owns the on-disk artifact tree of downloaded filing
// documents.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

func NewDir(datadir string) *Dir {
	return &Dir{datadir: datadir}
}

// Dir stores artifacts under datadir/CIK/ACCESSION/basename. Files are
// written once and never mutated; presence with non-zero size is the
// completion marker.
type Dir struct {
	datadir string
}

// Path is the deterministic local path for one remote file of a filing.
func (self *Dir) Path(cik, accNoDashes, fname string) string {
	return filepath.Join(self.datadir, cik, accNoDashes, filepath.Base(fname))
}

// Has reports whether path already holds a completed download.
func (self *Dir) Has(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Size() > 0
}

// Save writes the full body into path, creating parent directories as
// needed. The body is buffered completely before the file is created: a
// transfer failing mid-stream must not leave a non-empty file behind, or
// Has would treat the truncated artifact as completed on every later run.
func (self *Dir) Save(path string, r io.Reader) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed read body for %q: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %q: %w", filepath.Dir(path), err)
	}

	if err := os.WriteFile(path, body, 0o644); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed write into %q: %w", path, err)
	}
	return nil
}
