package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nneonya/Travel-app/pkg/logger"
	"golang.org/x/time/rate"
)

// KeyedRateLimiter keeps one token bucket per client key (IP or user).
type KeyedRateLimiter struct {
	entries map[string]*rateLimiterEntry
	mu      sync.Mutex
	r       rate.Limit
	burst   int
	idleTTL time.Duration
}

type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewKeyedRateLimiter creates a limiter allowing r events per second with
// the given burst per key.
func NewKeyedRateLimiter(r rate.Limit, burst int) *KeyedRateLimiter {
	rl := &KeyedRateLimiter{
		entries: make(map[string]*rateLimiterEntry),
		r:       r,
		burst:   burst,
		idleTTL: 3 * time.Minute,
	}
	go rl.cleanup()
	return rl
}

func (rl *KeyedRateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)
		rl.prune(time.Now())
	}
}

func (rl *KeyedRateLimiter) prune(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, entry := range rl.entries {
		if now.Sub(entry.lastSeen) > rl.idleTTL {
			delete(rl.entries, key)
		}
	}
}

// Allow consumes one token for key.
func (rl *KeyedRateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	entry, exists := rl.entries[key]
	if !exists {
		entry = &rateLimiterEntry{limiter: rate.NewLimiter(rl.r, rl.burst)}
		rl.entries[key] = entry
	}
	entry.lastSeen = time.Now()
	rl.mu.Unlock()

	return entry.limiter.Allow()
}

var (
	// Register/login: 20 per minute per IP
	AuthLimiter = NewKeyedRateLimiter(rate.Limit(20.0/60.0), 10)

	// General API: 600 per minute per IP
	GeneralLimiter = NewKeyedRateLimiter(rate.Limit(10.0), 50)

	// Chat messages: 30 per minute per user
	ChatLimiter = NewKeyedRateLimiter(rate.Limit(30.0/60.0), 10)
)

// RateLimitMiddleware limits by authenticated user when known, by IP
// otherwise.
func RateLimitMiddleware(limiter *KeyedRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if userID, ok := CurrentUserID(c); ok {
			key = "user:" + strconv.FormatUint(uint64(userID), 10)
		}

		if !limiter.Allow(key) {
			logger.Warn().
				Str("key", key).
				Str("path", c.Request.URL.Path).
				Msg("Rate limit exceeded")

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too many requests",
				"message": "Rate limit exceeded. Please slow down.",
			})
			return
		}

		c.Next()
	}
}

func AuthRateLimit() gin.HandlerFunc {
	return RateLimitMiddleware(AuthLimiter)
}

func GeneralRateLimit() gin.HandlerFunc {
	return RateLimitMiddleware(GeneralLimiter)
}

func ChatRateLimit() gin.HandlerFunc {
	return RateLimitMiddleware(ChatLimiter)
}
