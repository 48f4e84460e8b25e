package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"storefront-checkout/internal/shared/response"
)

// SessionRateLimiter keeps one token bucket per session. Every access renews
// the bucket's expiry, so only idle buckets are dropped.
type SessionRateLimiter struct {
	limit    rate.Limit
	burst    int
	limiters *cache.Cache
}

func NewSessionRateLimiter(perSecond float64, burst int, idle time.Duration) *SessionRateLimiter {
	return &SessionRateLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: cache.New(idle, idle*2),
	}
}

func (l *SessionRateLimiter) limiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Get(key); ok {
		lim := v.(*rate.Limiter)
		l.limiters.Set(key, lim, cache.DefaultExpiration)
		return lim
	}

	lim := rate.NewLimiter(l.limit, l.burst)
	if err := l.limiters.Add(key, lim, cache.DefaultExpiration); err != nil {
		// lost the race, use the winner
		if v, ok := l.limiters.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return lim
}

// Allow reports whether key may proceed now.
func (l *SessionRateLimiter) Allow(key string) bool {
	return l.limiter(key).Allow()
}

// Middleware throttles by session id, falling back to the client IP.
func (l *SessionRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := GetSessionID(c)
		if key == "" {
			key = GetClientIP(c)
		}

		if !l.Allow(key) {
			response.ErrorResponse(c, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Too many order submissions, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
