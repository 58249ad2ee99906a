package objects

import "errors"

var (
	// configuration errors
	ErrBucketNotConfigured = errors.New("storage bucket not configured")

	// request validation errors
	ErrMissingFields         = errors.New("missing fileName or fileContent")
	ErrInvalidFileName       = errors.New("invalid file name")
	ErrInvalidContent        = errors.New("invalid file content")
	ErrInvalidDeploymentType = errors.New("invalid deployment type")

	// dependency errors
	ErrStorage       = errors.New("storage request failed")
	ErrPresignFailed = errors.New("presign failed")
	ErrUploadFailed  = errors.New("upload failed")
)
