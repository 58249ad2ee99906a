package objects

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"weave/models"
	"weave/services/presign"
	"weave/services/storage"
	"weave/utils"

	"golang.org/x/sync/errgroup"
)

const defaultContentType = "application/octet-stream"

// Deployment types a model can be uploaded as
const (
	DeploymentThread = "thread"
	DeploymentFabric = "fabric"
)

// Uploader sends bytes to a signed write URL
type Uploader interface {
	Put(ctx context.Context, url string, data []byte, contentType string) error
}

// Options tunes the service
type Options struct {
	// ReadURLTTL is the lifetime of signed download URLs
	ReadURLTTL time.Duration
	// SignConcurrency bounds parallel URL signing during a listing
	SignConcurrency int
}

// Service lists and uploads the files of a user. Every user owns the
// keys under "{userID}/" in the bucket.
type Service struct {
	storage  storage.ObjectStorage
	signer   presign.UploadSigner
	uploader Uploader
	opts     Options
	logger   *slog.Logger
}

// NewService creates a new objects service
func NewService(storage storage.ObjectStorage, signer presign.UploadSigner, uploader Uploader, opts Options, logger *slog.Logger) *Service {
	if opts.SignConcurrency < 1 {
		opts.SignConcurrency = 1
	}

	return &Service{
		storage:  storage,
		signer:   signer,
		uploader: uploader,
		opts:     opts,
		logger:   utils.NewComponentLogger(logger, "OBJECTS"),
	}
}

// List returns the user's objects in listing order, each with a signed
// download URL. Folder markers are skipped. An object whose URL cannot be
// signed is still returned, with a nil URL.
func (s *Service) List(ctx context.Context, userID string) ([]models.ObjectRecord, error) {
	if s.storage.GetBucketName() == "" {
		return nil, ErrBucketNotConfigured
	}

	prefix := userID + "/"
	objects, err := s.storage.ListObjects(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	records := make([]models.ObjectRecord, 0, len(objects))
	for _, o := range objects {
		if o.IsDirMarker() {
			continue
		}

		size := o.Size
		record := models.ObjectRecord{
			Key:      o.Key,
			FileName: strings.TrimPrefix(o.Key, prefix),
			Size:     &size,
		}
		if !o.LastModified.IsZero() {
			lm := o.LastModified
			record.LastModified = &lm
		}
		records = append(records, record)
	}

	// Each goroutine writes only its own slot.
	var g errgroup.Group
	g.SetLimit(s.opts.SignConcurrency)
	for i := range records {
		g.Go(func() error {
			u, err := s.storage.PresignGetObject(ctx, records[i].Key, s.opts.ReadURLTTL)
			if err != nil {
				s.logger.WarnContext(ctx, "failed to sign download url", "key", records[i].Key, "error", err)
				return nil
			}
			records[i].URL = &u
			return nil
		})
	}
	// Signing failures are recorded per slot, Wait never returns an error
	_ = g.Wait()

	return records, nil
}

// Upload stores the decoded request content at "{userID}/{fileName}". The
// write URL comes from the signer and the bytes are PUT to it from memory.
func (s *Service) Upload(ctx context.Context, userID string, req models.UploadRequest) (*models.UploadResponse, error) {
	if req.FileName == "" || req.FileContent == "" {
		return nil, ErrMissingFields
	}
	if !validFileName(req.FileName) {
		return nil, ErrInvalidFileName
	}
	if !validDeploymentType(req.DeploymentType) {
		return nil, ErrInvalidDeploymentType
	}

	data, _, err := DecodeDataURL(req.FileContent)
	if err != nil {
		return nil, err
	}

	key := userID + "/" + req.FileName

	url, err := s.signer.SignUpload(ctx, req.FileName, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPresignFailed, err)
	}

	contentType := req.FileType
	if contentType == "" {
		contentType = defaultContentType
	}

	if err := s.uploader.Put(ctx, url, data, contentType); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	s.logger.InfoContext(ctx, "uploaded object", "key", key, "size", len(data), "deployment_type", req.DeploymentType)

	return &models.UploadResponse{
		Success:        true,
		Key:            key,
		DeploymentType: req.DeploymentType,
	}, nil
}

func validFileName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}

func validDeploymentType(t string) bool {
	switch t {
	case "", DeploymentThread, DeploymentFabric:
		return true
	default:
		return false
	}
}
