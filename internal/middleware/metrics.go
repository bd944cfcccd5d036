package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mpeix-go/schedule-backend/internal/metrics"
)

// Metrics returns middleware that records per-request HTTP metrics.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, status, duration)
	}
}
