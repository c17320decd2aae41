package mw

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// CacheControl advertises how long clients may reuse a successful response.
// Handlers that fail are expected to override the header.
func CacheControl(maxAge time.Duration) gin.HandlerFunc {
	value := fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds()))
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}

// NoStore forbids clients from caching the response.
func NoStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
}
