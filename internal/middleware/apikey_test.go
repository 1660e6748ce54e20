package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestAPIKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	guard := APIKey("secret")

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/v1/courses/updates", nil)
	c.Request.Header.Set("X-Api-Key", "secret")
	guard(c)
	require.False(t, c.IsAborted())

	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	c2.Request = httptest.NewRequest("POST", "/api/v1/courses/updates", nil)
	c2.Request.Header.Set("X-Api-Key", "wrong")
	guard(c2)
	require.True(t, c2.IsAborted())

	c3, _ := gin.CreateTestContext(httptest.NewRecorder())
	c3.Request = httptest.NewRequest("POST", "/api/v1/courses/updates", nil)
	guard(c3)
	require.True(t, c3.IsAborted())
}

func TestAPIKeyDisabledWithoutKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	guard := APIKey("")
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/v1/courses/updates", nil)
	c.Request.Header.Set("X-Api-Key", "anything")
	guard(c)
	require.True(t, c.IsAborted())
}
