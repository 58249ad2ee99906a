package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"weave/middleware"
	"weave/models"
	"weave/services/objects"
	"weave/utils"

	"github.com/gin-gonic/gin"
)

// ObjectService is what the objects endpoints need from the service layer
type ObjectService interface {
	List(ctx context.Context, userID string) ([]models.ObjectRecord, error)
	Upload(ctx context.Context, userID string, req models.UploadRequest) (*models.UploadResponse, error)
}

// ObjectsController handles the /api/s3 endpoints
type ObjectsController struct {
	service        ObjectService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewObjectsController creates a new objects controller. Upload bodies
// larger than maxUploadBytes are rejected.
func NewObjectsController(service ObjectService, maxUploadBytes int64, logger *slog.Logger) *ObjectsController {
	return &ObjectsController{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         utils.NewComponentLogger(logger, "API"),
	}
}

// ListObjects returns the caller's files with signed download URLs
func (c *ObjectsController) ListObjects(ctx *gin.Context) {
	userID := middleware.UserID(ctx)

	items, err := c.service.List(ctx.Request.Context(), userID)
	if err != nil {
		c.logger.ErrorContext(ctx.Request.Context(), "list failed", "user_id", userID, "error", err)
		if errors.Is(err, objects.ErrBucketNotConfigured) {
			ctx.JSON(http.StatusInternalServerError, models.NewErrorResponse("Storage bucket not configured"))
			return
		}
		ctx.JSON(http.StatusInternalServerError, models.NewErrorResponse("List failed"))
		return
	}

	ctx.JSON(http.StatusOK, models.ListResponse{Items: items})
}

// UploadObject decodes a data URL upload and stores it under the caller's prefix
func (c *ObjectsController) UploadObject(ctx *gin.Context) {
	userID := middleware.UserID(ctx)

	if c.maxUploadBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadBytes)
	}

	var req models.UploadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ctx.JSON(http.StatusRequestEntityTooLarge, models.NewErrorResponse("File too large"))
			return
		}
		ctx.JSON(http.StatusBadRequest, models.NewErrorResponse("Bad request"))
		return
	}

	resp, err := c.service.Upload(ctx.Request.Context(), userID, req)
	if err != nil {
		status, message := uploadError(err)
		c.logger.WarnContext(ctx.Request.Context(), "upload failed",
			"user_id", userID, "file_name", req.FileName, "status", status, "error", err)
		ctx.JSON(status, models.NewErrorResponse(message))
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// uploadError maps service errors to a status and a client-safe message
func uploadError(err error) (int, string) {
	switch {
	case errors.Is(err, objects.ErrMissingFields):
		return http.StatusBadRequest, "Missing fileName or fileContent"
	case errors.Is(err, objects.ErrInvalidFileName):
		return http.StatusBadRequest, "Invalid fileName"
	case errors.Is(err, objects.ErrInvalidContent):
		return http.StatusBadRequest, "Invalid fileContent"
	case errors.Is(err, objects.ErrInvalidDeploymentType):
		return http.StatusBadRequest, "Invalid deploymentType"
	case errors.Is(err, objects.ErrPresignFailed):
		return http.StatusBadGateway, "Presign failed"
	case errors.Is(err, objects.ErrUploadFailed):
		return http.StatusBadGateway, "Upload failed"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
