package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"stockk_backend/schemas"
)

// requestWindow tracks requests from one IP inside the current window
type requestWindow struct {
	Count   int
	FirstAt time.Time
}

// RateLimiter caps requests per IP over a sliding window. It protects the
// upstream market-data proxies from being hammered through us.
type RateLimiter struct {
	mu          sync.Mutex
	windows     map[string]*requestWindow
	maxRequests int
	period      time.Duration
}

// NewRateLimiter creates a limiter allowing maxRequests per period per IP
func NewRateLimiter(maxRequests int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		windows:     make(map[string]*requestWindow),
		maxRequests: maxRequests,
		period:      period,
	}
	go rl.startCleanup()
	return rl
}

// startCleanup periodically drops expired windows
func (rl *RateLimiter) startCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	for range ticker.C {
		rl.cleanup()
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for ip, window := range rl.windows {
		if now.Sub(window.FirstAt) > rl.period {
			delete(rl.windows, ip)
		}
	}
}

// Allow records a request and reports whether it fits in the window.
// It also returns the remaining quota and, when denied, the retry delay.
func (rl *RateLimiter) Allow(ip string) (bool, int, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	window, exists := rl.windows[ip]
	if !exists || now.Sub(window.FirstAt) > rl.period {
		rl.windows[ip] = &requestWindow{Count: 1, FirstAt: now}
		return true, rl.maxRequests - 1, 0
	}

	if window.Count >= rl.maxRequests {
		return false, 0, rl.period - now.Sub(window.FirstAt)
	}
	window.Count++
	return true, rl.maxRequests - window.Count, 0
}

// Handler returns the gin middleware for this limiter
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		allowed, remaining, retryAfter := rl.Allow(ip)

		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		if !allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, schemas.Response{
				Status:  schemas.StatusError,
				Message: "Too many requests",
			})
			return
		}
		c.Next()
	}
}
