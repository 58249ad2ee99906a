package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// BucketNamer reports the configured storage bucket
type BucketNamer interface {
	GetBucketName() string
}

// HealthController reports liveness, build version and whether object
// requests can be served
type HealthController struct {
	version string
	storage BucketNamer
	started time.Time
	now     func() time.Time
}

// NewHealthController creates a new health controller
func NewHealthController(version string, storage BucketNamer) *HealthController {
	return &HealthController{
		version: version,
		storage: storage,
		started: time.Now(),
		now:     time.Now,
	}
}

// HealthCheck answers 200 while the process is up. A missing bucket is
// reported as degraded since every /api/s3 request would fail.
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	now := c.now()

	status, bucket := "healthy", "configured"
	if c.storage == nil || c.storage.GetBucketName() == "" {
		status, bucket = "degraded", "missing"
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":        status,
		"storageBucket": bucket,
		"version":       c.version,
		"uptimeSeconds": int64(now.Sub(c.started).Seconds()),
		"timestamp":     now.UTC().Format(time.RFC3339),
	})
}
