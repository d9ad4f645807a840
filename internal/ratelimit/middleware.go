package ratelimit

import (
	"net/http"
	"strconv"

	"taskboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

const MsgTooManyRequests = "Too many requests, try again later"

// ByClientIP limits requests per client IP. Store failures let the request through.
func ByClientIP(l *Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Enabled() {
			c.Next()
			return
		}

		retryAfter, ok, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.FromGin(c).Warn("rate limiter unavailable", "err", err)
			c.Next()
			return
		}
		if !ok {
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "message": MsgTooManyRequests})
			return
		}
		c.Next()
	}
}
