package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/calarcon/aulabot/internal/pkg/logutil"
	"github.com/calarcon/aulabot/internal/pkg/response"
)

const sweepEvery = 1024

type rateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	last   map[string]time.Time
	hits   int
	now    func() time.Time
}

// RateLimit allows one request per window per client+path. A zero window
// disables the limiter.
func RateLimit(window time.Duration) gin.HandlerFunc {
	limiter := &rateLimiter{
		window: window,
		last:   make(map[string]time.Time),
		now:    time.Now,
	}
	return limiter.handle
}

func (l *rateLimiter) handle(c *gin.Context) {
	if l.window <= 0 {
		c.Next()
		return
	}
	key := l.key(c)

	now := l.now()
	l.mu.Lock()
	last, exists := l.last[key]
	if exists && now.Sub(last) < l.window {
		l.mu.Unlock()
		logutil.GetLogger(c.Request.Context()).Warn("rate limit hit", zap.String("key", key))
		response.Error(c, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
		c.Abort()
		return
	}
	l.last[key] = now
	l.hits++
	if l.hits >= sweepEvery {
		l.hits = 0
		l.sweep(now)
	}
	l.mu.Unlock()
	c.Next()
}

func (l *rateLimiter) key(c *gin.Context) string {
	client := c.ClientIP()
	if uid := c.GetHeader("X-User-Id"); uid != "" {
		client = uid
	}
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	return strings.Join([]string{client, path}, "|")
}

// sweep drops entries outside the window; called with mu held.
func (l *rateLimiter) sweep(now time.Time) {
	for key, last := range l.last {
		if now.Sub(last) >= l.window {
			delete(l.last, key)
		}
	}
}
