package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	BackendS3    = "s3"
	BackendMinio = "minio"
)

// Config holds all application configuration
type Config struct {
	Port         string        `yaml:"port"`
	CorsOrigin   string        `yaml:"cors_origin"`
	StaticDir    string        `yaml:"static_dir"`
	LogFormat    string        `yaml:"log_format"`
	LogLevel     string        `yaml:"log_level"`
	Storage      StorageConfig `yaml:"storage"`
	Presign      PresignConfig `yaml:"presign"`
	Auth         AuthConfig    `yaml:"auth"`
	MaxUploadMB  int64         `yaml:"max_upload_mb"`
	UploadRate   int           `yaml:"upload_rate_per_minute"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// StorageConfig selects and configures the object storage backend.
// An empty Bucket is not a startup error; requests report it instead.
type StorageConfig struct {
	Backend         string        `yaml:"backend"`
	Bucket          string        `yaml:"bucket"`
	Region          string        `yaml:"region"`
	Endpoint        string        `yaml:"endpoint"`
	AccessKeyID     string        `yaml:"access_key_id"`
	SecretAccessKey string        `yaml:"secret_access_key"`
	UseSSL          bool          `yaml:"use_ssl"`
	ReadURLTTL      time.Duration `yaml:"read_url_ttl"`
	WriteURLTTL     time.Duration `yaml:"write_url_ttl"`
	SignConcurrency int           `yaml:"sign_concurrency"`
}

// PresignConfig points at the external function that issues upload URLs.
// When Endpoint is empty, upload URLs are signed by the storage backend.
type PresignConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// AuthConfig configures session token verification
type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	SessionCookie string `yaml:"session_cookie"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Port:       "8080",
		CorsOrigin: "http://localhost:3000",
		LogFormat:  "json",
		LogLevel:   "info",
		Storage: StorageConfig{
			Backend:         BackendS3,
			Region:          "us-east-1",
			ReadURLTTL:      900 * time.Second,
			WriteURLTTL:     600 * time.Second,
			SignConcurrency: 8,
		},
		Presign: PresignConfig{
			Timeout: 30 * time.Second,
		},
		Auth: AuthConfig{
			SessionCookie: "sb-access-token",
		},
		MaxUploadMB:  100,
		UploadRate:   30,
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
	}
}

// Load builds the configuration: defaults, then the optional YAML file at
// path (or WEAVE_CONFIG when path is empty), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("WEAVE_CONFIG")
	}

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.loadEnv()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

func (c *Config) loadEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.CorsOrigin = getEnv("CORS_ORIGIN", c.CorsOrigin)
	c.StaticDir = getEnv("STATIC_DIR", c.StaticDir)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.Storage.Backend = strings.ToLower(getEnv("STORAGE_BACKEND", c.Storage.Backend))
	c.Storage.Bucket = getEnv("S3_BUCKET_NAME", c.Storage.Bucket)
	c.Storage.Region = getEnv("S3_REGION", getEnv("AWS_REGION", c.Storage.Region))
	c.Storage.ReadURLTTL = getEnvDuration("READ_URL_TTL", c.Storage.ReadURLTTL)
	c.Storage.WriteURLTTL = getEnvDuration("WRITE_URL_TTL", c.Storage.WriteURLTTL)
	c.Storage.SignConcurrency = getEnvInt("SIGN_CONCURRENCY", c.Storage.SignConcurrency)

	// Backend-specific connection settings
	if c.Storage.Backend == BackendMinio {
		c.Storage.Endpoint = getEnv("MINIO_ENDPOINT", c.Storage.Endpoint)
		c.Storage.AccessKeyID = getEnv("MINIO_ACCESS_KEY", c.Storage.AccessKeyID)
		c.Storage.SecretAccessKey = getEnv("MINIO_SECRET_KEY", c.Storage.SecretAccessKey)
		c.Storage.UseSSL = getEnvBool("MINIO_USE_SSL", c.Storage.UseSSL)
	} else {
		c.Storage.Endpoint = getEnv("S3_ENDPOINT", c.Storage.Endpoint)
		c.Storage.AccessKeyID = getEnv("S3_ACCESS_KEY_ID", c.Storage.AccessKeyID)
		c.Storage.SecretAccessKey = getEnv("S3_SECRET_ACCESS_KEY", c.Storage.SecretAccessKey)
	}

	c.Presign.Endpoint = getEnv("LAMBDA_PRESIGN_ENDPOINT", c.Presign.Endpoint)
	c.Presign.Timeout = getEnvDuration("PRESIGN_TIMEOUT", c.Presign.Timeout)

	c.Auth.JWTSecret = getEnv("AUTH_JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.SessionCookie = getEnv("SESSION_COOKIE", c.Auth.SessionCookie)

	c.MaxUploadMB = getEnvInt64("MAX_UPLOAD_MB", c.MaxUploadMB)
	c.UploadRate = getEnvInt("UPLOAD_RATE_PER_MINUTE", c.UploadRate)
	c.ReadTimeout = getEnvDuration("READ_TIMEOUT", c.ReadTimeout)
	c.WriteTimeout = getEnvDuration("WRITE_TIMEOUT", c.WriteTimeout)
}

// Validate reports settings the server cannot start without
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Backend {
	case BackendS3:
		if c.Storage.Region == "" {
			errs = append(errs, errors.New("storage region is required for the s3 backend"))
		}
	case BackendMinio:
		if c.Storage.Endpoint == "" {
			errs = append(errs, errors.New("minio endpoint is required for the minio backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.Storage.Backend))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth jwt secret is required"))
	}
	if c.Storage.SignConcurrency < 1 {
		errs = append(errs, errors.New("sign concurrency must be at least 1"))
	}

	return errors.Join(errs...)
}

// MaxUploadBytes returns the request body limit for uploads
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// Helper function to get duration from environment variable
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// Helper function to get int64 from environment variable
func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func getEnvInt(key string, defaultValue int) int {
	return int(getEnvInt64(key, int64(defaultValue)))
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return b
}
