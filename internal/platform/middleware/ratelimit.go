package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{RequestsPerSecond: 100, BurstSize: 200}
}

// tokenBucket is a simple per-client token bucket.
type tokenBucket struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimit limits requests per remote IP using a token bucket. Buckets idle
// for over ten minutes are dropped on the next sweep.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	var (
		mu      sync.Mutex
		buckets = make(map[string]*tokenBucket)
		sweep   = time.Now()
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now()
			ip := c.RealIP()

			mu.Lock()
			if now.Sub(sweep) > 10*time.Minute {
				for k, b := range buckets {
					if now.Sub(b.lastSeen) > 10*time.Minute {
						delete(buckets, k)
					}
				}
				sweep = now
			}

			b, ok := buckets[ip]
			if !ok {
				b = &tokenBucket{tokens: float64(cfg.BurstSize), lastSeen: now}
				buckets[ip] = b
			}

			b.tokens += now.Sub(b.lastSeen).Seconds() * cfg.RequestsPerSecond
			if b.tokens > float64(cfg.BurstSize) {
				b.tokens = float64(cfg.BurstSize)
			}
			b.lastSeen = now

			if b.tokens < 1 {
				mu.Unlock()
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			b.tokens--
			mu.Unlock()

			return next(c)
		}
	}
}
