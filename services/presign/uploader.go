package presign

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Uploader sends object bytes to signed write URLs
type Uploader struct {
	client *http.Client
}

// NewUploader creates an uploader with the given request timeout
func NewUploader(timeout time.Duration) *Uploader {
	return &Uploader{client: &http.Client{Timeout: timeout}}
}

// Put uploads data to url in a single request. No retries.
func (u *Uploader) Put(ctx context.Context, url string, data []byte, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	req.ContentLength = int64(len(data))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrUploadFailed, resp.StatusCode)
	}

	return nil
}
