package util

import (
	"path/filepath"
	"strings"
)

// WebMExtension is the only file extension accepted for verification.
const WebMExtension = ".webm"

// HasWebMExtension reports whether path ends in .webm. The check is
// case-sensitive, matching what the encoding standard requires of filenames.
func HasWebMExtension(path string) bool {
	return strings.HasSuffix(path, WebMExtension)
}

// GetFilename returns the filename from a path.
func GetFilename(path string) string {
	return filepath.Base(path)
}

// GetFileStem returns the filename without extension.
func GetFileStem(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}
