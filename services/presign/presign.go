package presign

import (
	"context"
	"errors"
	"fmt"
	"time"

	"weave/services/storage"
)

var (
	ErrSignFailed   = errors.New("presign request failed")
	ErrNoUploadURL  = errors.New("presign response has no upload url")
	ErrUploadFailed = errors.New("upload to signed url failed")
)

// UploadSigner issues one-time signed write URLs
type UploadSigner interface {
	SignUpload(ctx context.Context, filename, uid string) (string, error)
}

// StorageSigner signs uploads directly with the storage backend. It is
// used when no external presign endpoint is configured.
type StorageSigner struct {
	storage storage.ObjectStorage
	ttl     time.Duration
}

// NewStorageSigner creates a signer producing URLs valid for ttl
func NewStorageSigner(s storage.ObjectStorage, ttl time.Duration) *StorageSigner {
	return &StorageSigner{storage: s, ttl: ttl}
}

// SignUpload signs a PUT for uid/filename
func (s *StorageSigner) SignUpload(ctx context.Context, filename, uid string) (string, error) {
	u, err := s.storage.PresignPutObject(ctx, uid+"/"+filename, s.ttl)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignFailed, err)
	}
	return u, nil
}
