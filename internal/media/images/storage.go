// Package images decodes uploaded images and stores them through a pluggable backend.
package images

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Storage persists media objects under slash-separated keys such as "recipes/<uuid>.png".
type Storage interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns the absolute public URL of a key.
	URL(key string) string
}

// FileStorage stores media on the local filesystem and serves it under a public base URL.
// Thread-safe for concurrent operations.
type FileStorage struct {
	basePath  string
	publicURL string
	mu        sync.RWMutex
}

// NewFileStorage creates a FileStorage rooted at basePath.
// publicURL is the URL prefix the directory is served under (e.g. "http://localhost:8080/media").
func NewFileStorage(basePath, publicURL string) (*FileStorage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}

	return &FileStorage{
		basePath:  basePath,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Root returns the directory media is stored in.
func (s *FileStorage) Root() string {
	return s.basePath
}

// Save writes data under key, creating intermediate directories.
func (s *FileStorage) Save(_ context.Context, key string, data []byte, _ string) error {
	if len(data) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}

	path, err := s.Path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}
	return nil
}

// Get reads the object stored under key.
func (s *FileStorage) Get(key string) ([]byte, error) {
	path, err := s.Path(key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	//#nosec G304 -- path is confined to basePath by Path
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return data, nil
}

// Exists checks if an object exists under key.
func (s *FileStorage) Exists(key string) bool {
	path, err := s.Path(key)
	if err != nil {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err = os.Stat(path)
	return err == nil
}

// Delete removes the object stored under key. Deleting a missing object is not an error.
func (s *FileStorage) Delete(_ context.Context, key string) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image file: %w", err)
	}
	return nil
}

// URL returns the public URL of key.
func (s *FileStorage) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.publicURL + "/" + strings.TrimLeft(key, "/")
}

// Path returns the filesystem path for key, rejecting keys that escape the storage root.
func (s *FileStorage) Path(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key cannot be empty")
	}

	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid media key %q", key)
	}
	return filepath.Join(s.basePath, clean), nil
}
