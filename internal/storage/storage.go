package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Supported storage backends
const (
	BackendLocal = "local"
	BackendS3    = "s3"
	BackendMinio = "minio"
)

// Pre-signed URL lifetimes
const (
	UploadURLExpiry   = 15 * time.Minute
	DownloadURLExpiry = 24 * time.Hour
)

var (
	// ErrNotFound is returned when a key does not exist in the store
	ErrNotFound = errors.New("object not found")
	// ErrPresignUnsupported is returned by backends that cannot issue URLs
	ErrPresignUnsupported = errors.New("pre-signed URLs are not supported by this backend")
)

// Store handles storage of spectrogram exports and equalizer files
type Store interface {
	GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error)
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
	DownloadFile(ctx context.Context, key string) ([]byte, error)
	UploadFile(ctx context.Context, key string, data []byte, contentType string) error
	DeleteFile(ctx context.Context, key string) error
}

// Config holds configuration for every storage backend
type Config struct {
	Backend   string
	Dir       string // local backend root
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// New creates the Store selected by cfg.Backend
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendLocal:
		return NewLocalStore(cfg.Dir)
	case BackendS3:
		return NewS3Store(cfg)
	case BackendMinio:
		return NewMinioStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// ValidateContentType validates that the content type is a supported export type
func ValidateContentType(contentType string) error {
	validTypes := map[string]bool{
		"text/plain":                true,
		"text/csv":                  true,
		"text/tab-separated-values": true,
	}

	if !validTypes[contentType] {
		return fmt.Errorf("invalid content type: %s. Supported types: text/plain, text/csv, text/tab-separated-values", contentType)
	}

	return nil
}
