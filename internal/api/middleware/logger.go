package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/criptex_server/internal/pkg/logging"
)

// RequestLogger 记录每个请求的方法、路径、状态码和耗时
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	logger = logger.With("component", "http")

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		}
		if user, ok := GetUser(c); ok {
			args = append(args, "user_id", user.ID)
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			logger.Error(c.Request.Context(), "request", args...)
		case status >= 400:
			logger.Warn(c.Request.Context(), "request", args...)
		default:
			logger.Info(c.Request.Context(), "request", args...)
		}
	}
}
