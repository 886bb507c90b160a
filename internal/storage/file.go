package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// validKey matches alphanumeric, dash, underscore, and dot characters only.
var validKey = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// validateKey rejects keys that could cause path traversal.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key must not be empty")
	}
	if strings.Contains(key, "..") {
		return fmt.Errorf("key must not contain '..'")
	}
	if !validKey.MatchString(key) {
		return fmt.Errorf("key contains invalid characters: only alphanumeric, dash, underscore, and dot are allowed")
	}
	return nil
}

// File is a KV backed by one JSON file per key in a directory.
// Writes are atomic (tmp file + rename).
type File struct {
	dir string
	mu  sync.Mutex
}

// NewFile creates a file-backed KV rooted at dir.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create storage directory: %w", err)
	}
	return &File{dir: dir}, nil
}

// DefaultDir returns the default storage directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "copywatch")
	}
	return filepath.Join(home, ".copywatch")
}

// Get returns the value stored under key, or ErrNotFound.
func (f *File) Get(key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, fmt.Errorf("invalid storage key: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Set writes value under key atomically.
func (f *File) Set(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return fmt.Errorf("invalid storage key: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	path := f.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Delete removes the value under key. Deleting an absent key is a no-op.
func (f *File) Delete(key string) error {
	if err := validateKey(key); err != nil {
		return fmt.Errorf("invalid storage key: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}
