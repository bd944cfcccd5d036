package persistent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mpeix-go/schedule-backend/pkg/apperrors"
)

// FilesystemStore is the default BlobStore backend: a root directory
// holding files named after the cache key (spec.md §6's persistent cache
// layout, "{year}/{type} {UPPER_NAME} [{YYYY-MM-DD}].cache"). Adapted from
// noah-isme-sma-adp-api/pkg/storage/filesystem.go's LocalStorage, trimmed
// to the get/put shape this cache tier needs (no streaming, no cleanup
// sweep — the persistent cache never expires entries itself).
type FilesystemStore struct {
	root string
}

// NewFilesystemStore ensures root exists and returns a handle.
func NewFilesystemStore(root string) (*FilesystemStore, error) {
	if root == "" {
		root = "./cache"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, apperrors.NewInternal("create cache root directory", err)
	}
	return &FilesystemStore{root: root}, nil
}

func (s *FilesystemStore) Get(_ context.Context, key string) ([]byte, error) {
	path := s.resolve(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read cache file: %w", err)
	}
	return data, nil
}

func (s *FilesystemStore) Put(_ context.Context, key string, blob []byte) error {
	path := s.resolve(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare cache directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	// Rename is atomic on the same filesystem, satisfying spec.md §4.2's
	// "overwrites atomically enough for single-process use".
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("finalize cache file: %w", err)
	}
	return nil
}

func (s *FilesystemStore) resolve(key string) string {
	if filepath.IsAbs(key) {
		return key
	}
	return filepath.Join(s.root, filepath.FromSlash(key))
}
