package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type localStore struct {
	root string
}

// NewLocalStore creates a Store that keeps objects as files below dir
func NewLocalStore(dir string) (Store, error) {
	if dir == "" {
		dir = "."
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage path %s is not a directory", dir)
	}
	return &localStore{root: dir}, nil
}

func (s *localStore) path(key string) (string, error) {
	clean := filepath.FromSlash(key)
	if !filepath.IsLocal(clean) {
		return "", fmt.Errorf("invalid key %q: must be a relative path inside the storage directory", key)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *localStore) GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error) {
	return "", ErrPresignUnsupported
}

func (s *localStore) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	return "", ErrPresignUnsupported
}

// DownloadFile reads the file stored under key
func (s *localStore) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// UploadFile writes data to the file for key, creating parent directories
func (s *localStore) UploadFile(ctx context.Context, key string, data []byte, contentType string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// DeleteFile removes the file for key. Missing files are not an error.
func (s *localStore) DeleteFile(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
