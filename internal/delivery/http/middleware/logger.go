package middleware

import (
	"time"

	"interview-tayari/internal/delivery/http/response"
	"interview-tayari/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger writes one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
			"request_id", c.GetString(response.RequestIDKey),
		}

		switch {
		case status >= 500:
			logger.Log.Errorw("Request failed", fields...)
		case status >= 400:
			logger.Log.Warnw("Request rejected", fields...)
		default:
			logger.Log.Infow("Request handled", fields...)
		}
	}
}
