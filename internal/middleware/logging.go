package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nneonya/Travel-app/pkg/logger"
)

// LoggingMiddleware logs every request with status and latency.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		rawQuery := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		userID, _ := CurrentUserID(c)

		event := logger.Log.Info()
		if status >= 400 {
			event = logger.Log.Warn()
		}
		if status >= 500 {
			event = logger.Log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", rawQuery).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Uint("user_id", userID).
			Int("body_size", c.Writer.Size()).
			Msg("request")
	}
}
