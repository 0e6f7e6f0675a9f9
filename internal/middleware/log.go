package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"budget-planner/internal/util"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request. 5xx are logged as errors, 4xx as
// warnings.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration", time.Since(start),
			"ip", c.ClientIP(),
		}
		if user := CurrentUser(c); user != nil {
			attrs = append(attrs, "user_id", user.ID)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request", attrs...)
		case status >= http.StatusBadRequest:
			log.Warn("request", attrs...)
		default:
			log.Info("request", attrs...)
		}
	}
}

// Recovery answers a panic with the standard 500 envelope.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic", "path", c.Request.URL.Path, "panic", recovered)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
		c.Abort()
	})
}
