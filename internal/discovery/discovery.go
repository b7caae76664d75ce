// Package discovery resolves the WebM files a run should verify.
package discovery

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/five82/webmverify/internal/errors"
	"github.com/five82/webmverify/internal/util"
)

// FindWebMFiles finds WebM files in the given directory, dotfiles included.
// Returns files sorted alphabetically by filename.
func FindWebMFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.NewPathError(dir, err)
	}
	if !info.IsDir() {
		return nil, errors.NewPathError(dir, fmt.Errorf("%s is not a directory", dir))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewIOError(fmt.Sprintf("cannot read directory %s", dir), err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !util.HasWebMExtension(name) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}

	if len(files) == 0 {
		return nil, errors.NewNoFilesFoundError(dir)
	}

	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(files[i])) < strings.ToLower(filepath.Base(files[j]))
	})
	return files, nil
}

// CheckFile rejects a path that is unreadable or not a WebM.
func CheckFile(path string) error {
	if err := util.IsReadable(path); err != nil {
		return errors.NewPathError(path, err)
	}
	if !util.HasWebMExtension(path) {
		return errors.NewExtensionError(path)
	}
	return nil
}

// Resolve returns the files to verify. Explicit paths are checked and kept in
// the order given; with none, dir is searched. Every path is validated before
// any is returned, so a bad argument stops the run before probing starts.
func Resolve(args []string, dir string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if len(args) == 0 {
		files, err := FindWebMFiles(dir)
		if err != nil {
			return nil, err
		}
		logDiscoveredFiles(files, logger)
		return files, nil
	}

	for _, path := range args {
		if err := CheckFile(path); err != nil {
			return nil, err
		}
	}
	return append([]string(nil), args...), nil
}

// logDiscoveredFiles logs the first 5 discovered files plus a count.
func logDiscoveredFiles(files []string, logger *slog.Logger) {
	logger.Info("found webm files", "count", len(files))

	maxToLog := min(5, len(files))
	for i := range maxToLog {
		logger.Debug("discovered", "file", filepath.Base(files[i]))
	}
	if len(files) > 5 {
		logger.Debug("discovered", "more", len(files)-5)
	}
}
