package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Myphz/wwwallet-be/pkg/utils"
)

// RateLimitMiddleware applies a per-client token bucket to the routes it
// wraps. Entries idle for an hour are evicted so the map cannot grow
// unbounded. State is in-process only: running multiple replicas multiplies
// the effective limit.
type RateLimitMiddleware struct {
	limiters map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	mutex    sync.Mutex
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimitMiddleware allows requestsPerWindow requests every window per
// client key, with a burst of the same size.
func NewRateLimitMiddleware(requestsPerWindow int, window time.Duration) *RateLimitMiddleware {
	m := &RateLimitMiddleware{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Every(window / time.Duration(requestsPerWindow)),
		burst:    requestsPerWindow,
	}
	go m.cleanup()
	return m
}

// Handler limits by client IP, falling back through gin's ClientIP
// resolution.
func (m *RateLimitMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.allow(c.ClientIP()) {
			utils.SendTooManyRequestsError(c, "Too many requests. Please try again later.")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *RateLimitMiddleware) allow(key string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	entry, ok := m.limiters[key]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.limiters[key] = entry
	}
	entry.lastSeen = time.Now()

	return entry.limiter.Allow()
}

func (m *RateLimitMiddleware) cleanup() {
	for range time.Tick(10 * time.Minute) {
		m.mutex.Lock()
		for key, entry := range m.limiters {
			if time.Since(entry.lastSeen) > time.Hour {
				delete(m.limiters, key)
			}
		}
		m.mutex.Unlock()
	}
}
