package presign

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"weave/services/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteSigner_SignUpload(t *testing.T) {
	var got signRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"url":"https://bucket.example.com/put?sig=1"}`)
	}))
	defer srv.Close()

	url, err := NewRemoteSigner(srv.URL, time.Second).SignUpload(context.Background(), "model.onnx", "user-1")
	require.NoError(t, err)

	assert.Equal(t, "https://bucket.example.com/put?sig=1", url)
	assert.Equal(t, signRequest{Filename: "model.onnx", UID: "user-1"}, got)
}

func TestRemoteSigner_UploadURLFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"uploadUrl":"https://bucket.example.com/alt"}`)
	}))
	defer srv.Close()

	url, err := NewRemoteSigner(srv.URL, time.Second).SignUpload(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.example.com/alt", url)
}

func TestRemoteSigner_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "non ok status", status: http.StatusInternalServerError, body: `{"url":"x"}`, wantErr: ErrSignFailed},
		{name: "bad json", status: http.StatusOK, body: `not json`, wantErr: ErrSignFailed},
		{name: "no url", status: http.StatusOK, body: `{}`, wantErr: ErrNoUploadURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewRemoteSigner(srv.URL, time.Second).SignUpload(context.Background(), "a", "b")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRemoteSigner_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	_, err := NewRemoteSigner(endpoint, time.Second).SignUpload(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrSignFailed)
}

func TestUploader_Put(t *testing.T) {
	var (
		gotBody        []byte
		gotContentType string
		gotMethod      string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := NewUploader(time.Second).Put(context.Background(), srv.URL+"/obj?sig=1", []byte("ABC"), "application/octet-stream")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "application/octet-stream", gotContentType)
	assert.Equal(t, []byte("ABC"), gotBody)
}

func TestUploader_PutRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	err := NewUploader(time.Second).Put(context.Background(), srv.URL, []byte("x"), "")
	assert.ErrorIs(t, err, ErrUploadFailed)
}

type fakeStorage struct {
	storage.ObjectStorage
	key string
	ttl time.Duration
	err error
}

func (f *fakeStorage) PresignPutObject(ctx context.Context, key string, ttl time.Duration) (string, error) {
	f.key, f.ttl = key, ttl
	if f.err != nil {
		return "", f.err
	}
	return "https://signed/" + key, nil
}

func TestStorageSigner(t *testing.T) {
	fs := &fakeStorage{}
	url, err := NewStorageSigner(fs, 600*time.Second).SignUpload(context.Background(), "model.onnx", "user-1")
	require.NoError(t, err)

	assert.Equal(t, "https://signed/user-1/model.onnx", url)
	assert.Equal(t, "user-1/model.onnx", fs.key)
	assert.Equal(t, 600*time.Second, fs.ttl)

	fs.err = errors.New("boom")
	_, err = NewStorageSigner(fs, time.Minute).SignUpload(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrSignFailed)
}
