package middleware

import (
	"log/slog"
	"net/http"

	"weave/models"
	"weave/services/auth"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// RequireUser rejects requests without a valid session before any
// handler runs and stores the user id for the handlers that follow
func RequireUser(resolver *auth.SessionResolver, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := resolver.UserID(c.Request)
		if err != nil {
			logger.DebugContext(c.Request.Context(), "unauthenticated request", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the id stored by RequireUser
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
