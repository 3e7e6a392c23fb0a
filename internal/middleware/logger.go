package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"webapp/internal/pkg/response"
)

// RequestLogger records one line per request with latency and status,
// and recovers from panics. Internal detail goes to the log only; the
// client sees a bare 500.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		defer func() {
			if recovered := recover(); recovered != nil {
				slog.Error("panic recovered",
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"panic", recovered,
					"stack", string(debug.Stack()),
				)
				response.AbortEmpty(c, http.StatusInternalServerError)
				return
			}

			status := c.Writer.Status()
			attrs := []any{
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"status", status,
				"client_ip", c.ClientIP(),
				"latency", time.Since(start),
			}
			for _, err := range c.Errors {
				attrs = append(attrs, "error", err.Error())
			}

			switch {
			case status >= http.StatusInternalServerError:
				slog.Error("request", attrs...)
			case status >= http.StatusBadRequest:
				slog.Warn("request", attrs...)
			default:
				slog.Info("request", attrs...)
			}
		}()

		c.Next()
	}
}
