// Package store writes downloaded files into the local mirror tree.
// All writes are confined to a fixed root directory; any resolved path
// that would land outside it is rejected with ErrOutsideRoot.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ftpmirror/internal/fileutil"
)

// ErrOutsideRoot is returned when a target path escapes the store root.
// Configuration validation rejects unsafe folder names up front, so
// hitting this at write time means a remote entry carried a hostile name.
var ErrOutsideRoot = errors.New("target path escapes store root")

// Store is a file sink rooted at a single local directory.
type Store struct {
	root string
}

// New creates a Store rooted at root. The root itself is created lazily
// by the first EnsureDir or Write call.
func New(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

// Root returns the root directory the store writes under.
func (s *Store) Root() string {
	return s.root
}

// EnsureDir creates root/sub along with missing parents and returns the
// absolute directory path.
func (s *Store) EnsureDir(sub string) (string, error) {
	dir, err := s.dirFor(sub)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return dir, nil
}

// Write stores data at root/sub/name, creating the directory when needed.
// Existing files at the same path are overwritten.
func (s *Store) Write(sub, name string, data []byte) (string, error) {
	dir, err := s.dirFor(sub)
	if err != nil {
		return "", err
	}

	if !fileutil.IsSafeName(name) {
		return "", fmt.Errorf("file name %q: %w", name, ErrOutsideRoot)
	}
	target := filepath.Join(dir, name)
	if !contained(dir, target) {
		return "", fmt.Errorf("file name %q: %w", name, ErrOutsideRoot)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}
	return target, nil
}

// dirFor resolves the directory for one mirrored folder and verifies it
// stays inside the root.
func (s *Store) dirFor(sub string) (string, error) {
	dir := filepath.Join(s.root, sub)
	if !contained(s.root, dir) {
		return "", fmt.Errorf("folder %q: %w", sub, ErrOutsideRoot)
	}
	return dir, nil
}

// contained reports whether target is root itself or lies beneath it.
// The check is lexical, case-sensitive and separator-aware.
func contained(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	rel = filepath.Clean(rel)
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return true
}
