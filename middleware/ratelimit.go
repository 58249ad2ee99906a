package middleware

import (
	"net/http"
	"sync"
	"time"

	"weave/models"

	"github.com/gin-gonic/gin"
)

// RateLimiter implements a fixed-window per-IP rate limiting middleware
type RateLimiter struct {
	// Maximum requests per minute per IP
	ratePerMinute int
	// Map to track request counts and window starts
	clients     map[string]*clientLimit
	lastCleanup time.Time
	now         func() time.Time
	mu          sync.Mutex
}

type clientLimit struct {
	count       int
	windowStart time.Time
}

// NewRateLimiter creates a new rate limiter middleware
func NewRateLimiter(ratePerMinute int) *RateLimiter {
	return &RateLimiter{
		ratePerMinute: ratePerMinute,
		clients:       make(map[string]*clientLimit),
		now:           time.Now,
	}
}

// Allow records a request from ip and reports whether it is within the limit
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	// Drop clients idle for two windows, at most once a minute
	if now.Sub(rl.lastCleanup) > time.Minute {
		for key, client := range rl.clients {
			if now.Sub(client.windowStart) > 2*time.Minute {
				delete(rl.clients, key)
			}
		}
		rl.lastCleanup = now
	}

	client, exists := rl.clients[ip]
	if !exists || now.Sub(client.windowStart) > time.Minute {
		client = &clientLimit{windowStart: now}
		rl.clients[ip] = client
	}

	client.count++
	return client.count <= rl.ratePerMinute
}

// Limit creates a middleware function for rate limiting
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				models.NewErrorResponse("Rate limit exceeded. Please try again later."))
			return
		}

		c.Next()
	}
}
