package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"weave/config"
)

// ObjectStorage defines the interface for storage operations
type ObjectStorage interface {
	// ListObjects returns every object under prefix in listing order
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	// PresignGetObject returns a URL granting GET on key until ttl elapses
	PresignGetObject(ctx context.Context, key string, ttl time.Duration) (string, error)
	// PresignPutObject returns a URL granting PUT on key until ttl elapses
	PresignPutObject(ctx context.Context, key string, ttl time.Duration) (string, error)
	GetBucketName() string
}

// ObjectInfo contains information about a stored object
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ETag         string
}

// IsDirMarker reports whether the object is a zero-content folder marker
func (o ObjectInfo) IsDirMarker() bool {
	return strings.HasSuffix(o.Key, "/")
}

// New builds the storage backend selected by cfg.Backend
func New(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (ObjectStorage, error) {
	switch cfg.Backend {
	case config.BackendMinio:
		s, err := NewMinioStorage(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendS3, "":
		s, err := NewS3Storage(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
