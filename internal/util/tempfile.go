package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempDir is a private scratch directory removed by Cleanup.
type TempDir struct {
	path string
}

// CreateTempDir creates a uniquely named directory under baseDir whose name
// starts with prefix followed by an underscore. An empty baseDir uses the
// system temp directory.
func CreateTempDir(baseDir, prefix string) (*TempDir, error) {
	path, err := os.MkdirTemp(baseDir, prefix+"_*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	return &TempDir{path: path}, nil
}

// Path returns the directory path.
func (d *TempDir) Path() string {
	return d.path
}

// Join returns name inside the directory.
func (d *TempDir) Join(name string) string {
	return filepath.Join(d.path, name)
}

// Cleanup removes the directory and everything in it. It is safe to call
// more than once.
func (d *TempDir) Cleanup() error {
	if d == nil || d.path == "" {
		return nil
	}
	return os.RemoveAll(d.path)
}
