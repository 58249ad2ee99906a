package router

import (
	"log/slog"
	"net/http"
	"strings"

	"weave/controllers"
	"weave/middleware"
	"weave/models"
	"weave/services/auth"

	"github.com/gin-gonic/gin"
)

// Options holds everything the routes need besides the controllers
type Options struct {
	Resolver *auth.SessionResolver
	// UploadRate is the number of uploads per minute per IP, 0 disables the limit
	UploadRate int
	// StaticDir is served on non-API paths when set
	StaticDir string
	Logger    *slog.Logger
}

// RegisterRoutes configures all the API routes
func RegisterRoutes(r *gin.Engine, healthController *controllers.HealthController,
	authController *controllers.AuthController, objectsController *controllers.ObjectsController,
	opts Options) {

	api := r.Group("/api")
	{
		// Public routes
		api.GET("/health", healthController.HealthCheck)
		api.POST("/auth/signout", authController.SignOut)

		// Object routes, scoped to the session user
		s3 := api.Group("/s3")
		s3.Use(middleware.RequireUser(opts.Resolver, opts.Logger))
		{
			s3.GET("", objectsController.ListObjects)

			upload := []gin.HandlerFunc{objectsController.UploadObject}
			if opts.UploadRate > 0 {
				upload = append([]gin.HandlerFunc{middleware.NewRateLimiter(opts.UploadRate).Limit()}, upload...)
			}
			s3.POST("", upload...)
		}
	}

	r.NoRoute(noRoute(opts.StaticDir))
}

// noRoute answers unknown API paths with JSON and serves the frontend bundle elsewhere
func noRoute(staticDir string) gin.HandlerFunc {
	var fs http.FileSystem
	if staticDir != "" {
		fs = gin.Dir(staticDir, false)
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/api" || strings.HasPrefix(path, "/api/") || fs == nil {
			c.AbortWithStatusJSON(http.StatusNotFound, models.NewErrorResponse("Not found"))
			return
		}
		c.FileFromFS(path, fs)
	}
}
