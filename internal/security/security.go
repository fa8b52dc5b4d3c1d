package security

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	requestsPerMinute = 120
	// Idle entries older than this are dropped on the next sweep.
	limiterIdleTTL = 10 * time.Minute
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	rateLimiters   = make(map[string]*ipLimiter)
	rateLimitMutex sync.Mutex
	lastEviction   time.Time
)

// InitSecurity wires up the encryption layer used for registry credentials.
func InitSecurity() error {
	return InitKMS()
}

// RateLimiter caps per-IP request rates across the authenticated API. The
// bucket refills at requestsPerMinute spread over the minute, with a full
// minute's worth of burst.
func RateLimiter(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ip := c.RealIP()
		now := time.Now()

		rateLimitMutex.Lock()
		entry, exists := rateLimiters[ip]
		if !exists {
			entry = &ipLimiter{
				limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), requestsPerMinute),
			}
			rateLimiters[ip] = entry
		}
		entry.lastSeen = now
		evictIdleLimiters(now)
		rateLimitMutex.Unlock()

		if !entry.limiter.Allow() {
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "Rate limit exceeded. Please try again later.",
			})
		}

		return next(c)
	}
}

// evictIdleLimiters must be called with the lock held. It runs at most
// once per TTL so the map cannot grow without bound on churned client IPs.
func evictIdleLimiters(now time.Time) {
	if now.Sub(lastEviction) < limiterIdleTTL {
		return
	}
	lastEviction = now
	for ip, entry := range rateLimiters {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(rateLimiters, ip)
		}
	}
}
