package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/calarcon/aulabot/internal/pkg/response"
)

// APIKey guards admin routes with a static key carried in X-Api-Key.
func APIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			response.Error(c, http.StatusForbidden, "admin api disabled")
			c.Abort()
			return
		}
		got := c.GetHeader("X-Api-Key")
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			response.Error(c, http.StatusUnauthorized, "invalid api key")
			c.Abort()
			return
		}
		c.Next()
	}
}
