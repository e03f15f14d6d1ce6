package local

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("local: key not found")

// Store keeps one file per key under a base directory. It is the
// origin-scoped localStorage analog for a locally run save service.
type Store struct {
	dir string
}

// NewStore creates the base directory if absent and returns a Store.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = "./data/blobs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("local: create blob dir %q: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// path maps a key to a file name. Keys are percent-escaped so arbitrary key
// strings cannot traverse out of the base directory.
func (s *Store) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key))
}

func (s *Store) Read(_ context.Context, key string) (string, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("local: read %q: %w", key, err)
	}
	return string(data), nil
}

// Write stores the value via a temp file rename so a crash mid-write never
// leaves a truncated blob behind.
func (s *Store) Write(_ context.Context, key, value string) error {
	target := s.path(key)
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("local: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("local: write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("local: close %q: %w", key, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("local: rename %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("local: delete %q: %w", key, err)
	}
	return nil
}
