//go:build unix

package util

import (
	"os"

	"golang.org/x/sys/unix"
)

// IsReadable reports whether path is a regular file the current user may
// read. Permission is checked with access(2) so nothing is opened.
func IsReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &os.PathError{Op: "stat", Path: path, Err: unix.EISDIR}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return &os.PathError{Op: "access", Path: path, Err: err}
	}
	return nil
}
