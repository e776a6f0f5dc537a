package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestKeyedRateLimiter_PerKeyBuckets(t *testing.T) {
	rl := NewKeyedRateLimiter(rate.Limit(0.001), 2)

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))

	assert.True(t, rl.Allow("b"))
}

func TestKeyedRateLimiter_PruneIdle(t *testing.T) {
	rl := NewKeyedRateLimiter(rate.Limit(1), 1)
	rl.Allow("stale")

	rl.prune(time.Now().Add(rl.idleTTL + time.Second))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.entries)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewKeyedRateLimiter(rate.Limit(0.001), 1)

	r := gin.New()
	r.GET("/anon", RateLimitMiddleware(rl), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/user", func(c *gin.Context) { SetUserID(c, 5) }, RateLimitMiddleware(rl), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	hit := func(path string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("/anon"))
	assert.Equal(t, http.StatusTooManyRequests, hit("/anon"))

	// Authenticated callers get their own bucket.
	assert.Equal(t, http.StatusOK, hit("/user"))
	assert.Equal(t, http.StatusTooManyRequests, hit("/user"))
}
