// Package ratelimit provides a per-process token-bucket gin middleware
// for the optional HTTP front end.
//
// Adapted from internal/common/middleware/middleware.go's RateLimit
// (same rate.NewLimiter(rate.Every(...), burst) construction), dropped
// down from the teacher's Redis-backed multi-instance limiter since a
// single solver process has no cross-instance state to share (see
// DESIGN.md's dropped-dependency note).
package ratelimit

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Middleware returns gin middleware admitting at most requestsPerMinute
// requests per minute, with bursts up to that same count.
func Middleware(requestsPerMinute int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "too many requests",
				"message": "rate limit exceeded, slow down",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
