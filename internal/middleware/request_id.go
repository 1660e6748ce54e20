package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/calarcon/aulabot/internal/pkg/logutil"
)

// RequestID tags each request with an id and hangs a request-scoped logger
// on the context so downstream log lines correlate.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-Id", reqID)
		c.Set("request_id", reqID)

		logger := logutil.GetLogger(c.Request.Context()).With(zap.String("request_id", reqID))
		c.Request = c.Request.WithContext(logutil.WithLogger(c.Request.Context(), logger))
		c.Next()
	}
}
