package presign

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseSize bounds how much of a presign response is read
const maxResponseSize = 1 << 20

type signRequest struct {
	Filename string `json:"filename"`
	UID      string `json:"uid"`
}

type signResponse struct {
	URL       string `json:"url"`
	UploadURL string `json:"uploadUrl"`
}

// RemoteSigner asks an external presign function for upload URLs
type RemoteSigner struct {
	endpoint string
	client   *http.Client
}

// NewRemoteSigner creates a signer calling endpoint with the given timeout
func NewRemoteSigner(endpoint string, timeout time.Duration) *RemoteSigner {
	return &RemoteSigner{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// SignUpload posts {filename, uid} and returns the signed URL from the
// response's url field, falling back to uploadUrl
func (s *RemoteSigner) SignUpload(ctx context.Context, filename, uid string) (string, error) {
	body, err := json.Marshal(signRequest{Filename: filename, UID: uid})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrSignFailed, resp.StatusCode)
	}

	var out signResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrSignFailed, err)
	}

	if out.URL != "" {
		return out.URL, nil
	}
	if out.UploadURL != "" {
		return out.UploadURL, nil
	}

	return "", ErrNoUploadURL
}
