package controllers

import (
	"net/http"

	"weave/services/auth"

	"github.com/gin-gonic/gin"
)

// AuthController handles session endpoints
type AuthController struct {
	resolver *auth.SessionResolver
}

// NewAuthController creates a new auth controller
func NewAuthController(resolver *auth.SessionResolver) *AuthController {
	return &AuthController{resolver: resolver}
}

// SignOut expires the session cookie
func (c *AuthController) SignOut(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.resolver.CookieName(), "", -1, "/", "", ctx.Request.TLS != nil, true)
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
