//go:build !unix

package util

import (
	"fmt"
	"os"
)

// IsReadable reports whether path is a regular file the current user may
// read, by opening it.
func IsReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}
