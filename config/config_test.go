package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, BackendS3, c.Storage.Backend)
	assert.Equal(t, 900*time.Second, c.Storage.ReadURLTTL)
	assert.Equal(t, 600*time.Second, c.Storage.WriteURLTTL)
	assert.Equal(t, "sb-access-token", c.Auth.SessionCookie)
	assert.Empty(t, c.Storage.Bucket)
	assert.Equal(t, int64(100<<20), c.MaxUploadBytes())
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("S3_BUCKET_NAME", "models")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("LAMBDA_PRESIGN_ENDPOINT", "https://presign.example.com")
	t.Setenv("READ_URL_TTL", "5m")
	t.Setenv("MAX_UPLOAD_MB", "not-a-number")

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, "models", c.Storage.Bucket)
	assert.Equal(t, "eu-west-1", c.Storage.Region)
	assert.Equal(t, "https://presign.example.com", c.Presign.Endpoint)
	assert.Equal(t, 5*time.Minute, c.Storage.ReadURLTTL)
	assert.Equal(t, int64(100), c.MaxUploadMB, "unparsable values keep the previous value")
}

func TestLoad_S3RegionWinsOverAWSRegion(t *testing.T) {
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("S3_REGION", "ap-south-1")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ap-south-1", c.Storage.Region)
}

func TestLoad_MinioEnv(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "MINIO")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_ACCESS_KEY", "minioadmin")
	t.Setenv("MINIO_SECRET_KEY", "miniosecret")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("S3_ENDPOINT", "ignored")

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, BackendMinio, c.Storage.Backend)
	assert.Equal(t, "localhost:9000", c.Storage.Endpoint)
	assert.Equal(t, "minioadmin", c.Storage.AccessKeyID)
	assert.Equal(t, "miniosecret", c.Storage.SecretAccessKey)
	assert.True(t, c.Storage.UseSSL)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weave.yaml")
	yamlDoc := `
port: "7000"
storage:
  bucket: from-file
  region: us-west-2
  read_url_ttl: 10m
presign:
  endpoint: https://file.example.com
auth:
  jwt_secret: file-secret
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))

	t.Setenv("S3_BUCKET_NAME", "from-env")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", c.Port)
	assert.Equal(t, "from-env", c.Storage.Bucket)
	assert.Equal(t, "us-west-2", c.Storage.Region)
	assert.Equal(t, 10*time.Minute, c.Storage.ReadURLTTL)
	assert.Equal(t, 600*time.Second, c.Storage.WriteURLTTL, "unset keys keep defaults")
	assert.Equal(t, "https://file.example.com", c.Presign.Endpoint)
	assert.Equal(t, "file-secret", c.Auth.JWTSecret)
}

func TestLoad_FileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("port: [unterminated"), 0o600))
	_, err = Load(bad)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid s3", mutate: func(c *Config) {}},
		{name: "missing bucket is allowed", mutate: func(c *Config) { c.Storage.Bucket = "" }},
		{name: "missing secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: true},
		{name: "missing region", mutate: func(c *Config) { c.Storage.Region = "" }, wantErr: true},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "gcs" }, wantErr: true},
		{name: "minio without endpoint", mutate: func(c *Config) { c.Storage.Backend = BackendMinio }, wantErr: true},
		{name: "zero concurrency", mutate: func(c *Config) { c.Storage.SignConcurrency = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			c.Auth.JWTSecret = "secret"
			tt.mutate(c)

			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_WeaveConfigEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weave.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  bucket: from-yaml\n"), 0o600))
	t.Setenv("WEAVE_CONFIG", path)
	t.Setenv("S3_BUCKET_NAME", "")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-yaml", c.Storage.Bucket)

	t.Run("explicit path wins", func(t *testing.T) {
		other := filepath.Join(t.TempDir(), "other.yaml")
		require.NoError(t, os.WriteFile(other, []byte("storage:\n  bucket: from-flag\n"), 0o600))

		c, err := Load(other)
		require.NoError(t, err)
		assert.Equal(t, "from-flag", c.Storage.Bucket)
	})
}
