package response

import "github.com/gin-gonic/gin"

// Every endpoint answers with no-cache headers; health checks and 405s
// require them and the rest are harmless to mark.
func noCache(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.Header("Pragma", "no-cache")
}

// JSON writes a JSON body with no-cache headers.
func JSON(c *gin.Context, statusCode int, body any) {
	noCache(c)
	c.JSON(statusCode, body)
}

// Empty writes a bare status with no-cache headers.
func Empty(c *gin.Context, statusCode int) {
	noCache(c)
	c.Status(statusCode)
}

// AbortEmpty writes a bare status and stops the handler chain.
func AbortEmpty(c *gin.Context, statusCode int) {
	noCache(c)
	c.AbortWithStatus(statusCode)
}
