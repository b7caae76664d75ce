package util

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestHasWebMExtension(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"movie.webm", true},
		{"/videos/movie.webm", true},
		{"movie.WEBM", false},
		{"movie.mkv", false},
		{"webm", false},
		{"movie.webm.part", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := HasWebMExtension(tt.path); got != tt.want {
				t.Errorf("HasWebMExtension(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestGetFileStem(t *testing.T) {
	if got := GetFileStem("/videos/movie.webm"); got != "movie" {
		t.Errorf("GetFileStem() = %q, want movie", got)
	}
	if got := GetFilename("/videos/movie.webm"); got != "movie.webm" {
		t.Errorf("GetFilename() = %q, want movie.webm", got)
	}
}

func TestIsReadable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.webm")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := IsReadable(path); err != nil {
		t.Errorf("IsReadable(%q) = %v, want nil", path, err)
	}
	if err := IsReadable(filepath.Join(dir, "missing.webm")); err == nil {
		t.Error("Expected error for missing file")
	}
	if err := IsReadable(dir); err == nil {
		t.Error("Expected error for directory")
	}
}

func TestIsReadableNoPermission(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits not enforced")
	}
	path := filepath.Join(t.TempDir(), "locked.webm")
	if err := os.WriteFile(path, []byte("x"), 0o000); err != nil {
		t.Fatal(err)
	}
	if err := IsReadable(path); err == nil {
		t.Error("Expected error for unreadable file")
	}
}
