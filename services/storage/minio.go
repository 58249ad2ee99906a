package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"weave/config"
	"weave/utils"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage implements ObjectStorage interface using MinIO
type MinioStorage struct {
	client     *minio.Client
	bucketName string
	logger     *slog.Logger
}

// NewMinioStorage creates a new MinIO storage handler. When a bucket is
// configured and does not exist yet, it is created.
func NewMinioStorage(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*MinioStorage, error) {
	logger = utils.NewComponentLogger(logger, "MINIO")

	// Initialize MinIO client
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	if cfg.Bucket != "" {
		exists, err := client.BucketExists(ctx, cfg.Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
		}

		if !exists {
			err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region})
			if err != nil {
				return nil, fmt.Errorf("failed to create bucket: %w", err)
			}
			logger.Info("created bucket", "bucket", cfg.Bucket)
		}
	}

	return &MinioStorage{
		client:     client,
		bucketName: cfg.Bucket,
		logger:     logger,
	}, nil
}

// ListObjects lists objects with the given prefix
func (s *MinioStorage) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	objectCh := s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	var objects []ObjectInfo
	for object := range objectCh {
		if object.Err != nil {
			s.logger.ErrorContext(ctx, "failed to list objects", "bucket", s.bucketName, "prefix", prefix, "error", object.Err)
			return nil, fmt.Errorf("error listing objects: %w", object.Err)
		}

		objects = append(objects, ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
			ETag:         object.ETag,
		})
	}

	return objects, nil
}

// PresignGetObject signs a download URL
func (s *MinioStorage) PresignGetObject(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucketName, key, ttl, url.Values{})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to presign get", "key", key, "error", err)
		return "", fmt.Errorf("failed to presign get: %w", err)
	}
	return u.String(), nil
}

// PresignPutObject signs an upload URL
func (s *MinioStorage) PresignPutObject(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedPutObject(ctx, s.bucketName, key, ttl)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to presign put", "key", key, "error", err)
		return "", fmt.Errorf("failed to presign put: %w", err)
	}
	return u.String(), nil
}

// GetBucketName returns the bucket name
func (s *MinioStorage) GetBucketName() string {
	return s.bucketName
}
