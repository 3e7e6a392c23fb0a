package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"webapp/internal/pkg/response"
)

// NoQueryParams rejects requests carrying a query string on endpoints
// that do not accept one.
func NoQueryParams() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(c.Request.URL.RawQuery) > 0 {
			response.AbortEmpty(c, http.StatusBadRequest)
			return
		}
		c.Next()
	}
}

// EmptyBody rejects requests with a non-empty body on endpoints that
// must not receive one. The body is restored for downstream handlers.
func EmptyBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil {
			c.Next()
			return
		}
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.AbortEmpty(c, http.StatusBadRequest)
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(data))
		if len(data) > 0 {
			response.AbortEmpty(c, http.StatusBadRequest)
			return
		}
		c.Next()
	}
}
