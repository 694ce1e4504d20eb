// Package adapter contains filesystem and parsing adapters for the strum core.
package adapter

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	m "strum.dev/pkg/strum/internal/model"
)

// sourceExtension is the only file extension the scanner considers.
const sourceExtension = ".go"

// defaultExcludedDirs are directory names skipped on every scan; project
// configuration may add more.
var defaultExcludedDirs = []string{".git", "vendor", "node_modules"}

// ScanFunc receives each candidate source file exactly once, in walk order.
type ScanFunc func(path m.Path, content []byte) error

// SourceFSAdapter abstracts the filesystem operations discovery relies on, so
// the pipeline logic can be tested without touching the disk.
type SourceFSAdapter interface {
	// Scan traverses root once, invoking fn for every source file. The pass is
	// a pure read.
	Scan(root m.Path, fn ScanFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// HashFile returns a stable fingerprint (SHA-256) for the file at path.
	HashFile(path m.Path) (string, error)

	// FileInfo returns metadata for a path so callers can check existence.
	FileInfo(path m.Path) (os.FileInfo, error)
}

// LocalSourceFSAdapter is the disk-backed SourceFSAdapter.
type LocalSourceFSAdapter struct {
	excluded map[string]struct{}
}

// NewLocalSourceFSAdapter constructs an adapter that skips the default
// excluded directories plus any extra names supplied by configuration.
func NewLocalSourceFSAdapter(extraExcluded ...string) *LocalSourceFSAdapter {
	excluded := make(map[string]struct{}, len(defaultExcludedDirs)+len(extraExcluded))
	for _, name := range defaultExcludedDirs {
		excluded[name] = struct{}{}
	}

	for _, name := range extraExcluded {
		excluded[name] = struct{}{}
	}

	return &LocalSourceFSAdapter{excluded: excluded}
}

// Scan walks the tree under root, yielding (path, content) pairs for every
// source file outside the excluded directories.
func (a *LocalSourceFSAdapter) Scan(root m.Path, fn ScanFunc) error {
	rootStr := string(root)

	if _, err := os.Stat(rootStr); err != nil {
		return fmt.Errorf("project root error: %w", err)
	}

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if _, skip := a.excluded[info.Name()]; skip && path != rootStr {
				return filepath.SkipDir
			}

			return nil
		}

		if filepath.Ext(path) != sourceExtension {
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}

		return fn(m.Path(path), content)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalSourceFSAdapter) HashFile(path m.Path) (string, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}
