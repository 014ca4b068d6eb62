package gateway

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// routeLimiter is a per-route token bucket set: every route gets its own
// rate.Limiter, lazily created on first use and shared across requests to
// that route.
type routeLimiter struct {
	mu     sync.RWMutex
	limits map[string]*rate.Limiter
}

func newRouteLimiter() *routeLimiter {
	return &routeLimiter{limits: make(map[string]*rate.Limiter, 16)}
}

// limiterFor returns the limiter for route, creating it on first use with
// the burst/rate appropriate to that route.
func (l *routeLimiter) limiterFor(route string) *rate.Limiter {
	l.mu.RLock()
	if lim, ok := l.limits[route]; ok {
		l.mu.RUnlock()
		return lim
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok := l.limits[route]; ok {
		return lim
	}
	limit, burst := limitValuesFor(route)
	lim := rate.NewLimiter(limit, burst)
	l.limits[route] = lim
	return lim
}

// limitValuesFor sets tighter limits on the SSE endpoint (one long-lived
// connection attempt is expensive) and a shared default for every REST
// command endpoint.
func limitValuesFor(route string) (rate.Limit, int) {
	if route == "/api/events" {
		return rate.Every(time.Second), 2
	}
	return rate.Every(100 * time.Millisecond), 20
}

// rateLimitMiddleware rejects requests past each route's own bucket with
// 429, per route rather than globally, so a burst of window commands
// doesn't throttle door commands too.
func rateLimitMiddleware() gin.HandlerFunc {
	limiter := newRouteLimiter()
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		if !limiter.limiterFor(route).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}
