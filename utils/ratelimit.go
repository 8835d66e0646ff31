package utils

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"videoportalapi/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// LoginRateLimiter throttles requests per client IP with a token bucket.
// IPs idle long enough for their bucket to refill are evicted.
type LoginRateLimiter struct {
	limiters  sync.Map // ip -> *ipLimiter
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	now       func() time.Time
	lastSweep atomic.Int64
}

type ipLimiter struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// NewLoginRateLimiter allows perSecond requests per IP with the given burst.
func NewLoginRateLimiter(perSecond float64, burst int) *LoginRateLimiter {
	if burst < 1 {
		burst = 1
	}
	l := &LoginRateLimiter{limit: rate.Limit(perSecond), burst: burst, now: time.Now}
	l.idleTTL = time.Minute
	if perSecond > 0 {
		l.idleTTL += time.Duration(float64(burst) / perSecond * float64(time.Second))
	}
	return l
}

func (l *LoginRateLimiter) limiter(key string, now time.Time) *rate.Limiter {
	v, ok := l.limiters.Load(key)
	if !ok {
		v, _ = l.limiters.LoadOrStore(key, &ipLimiter{lim: rate.NewLimiter(l.limit, l.burst)})
	}
	entry := v.(*ipLimiter)
	entry.lastSeen.Store(now.UnixNano())
	return entry.lim
}

// evictIdle drops IPs not seen for idleTTL. It runs at most once per idleTTL.
func (l *LoginRateLimiter) evictIdle(now time.Time) {
	last := l.lastSweep.Load()
	if now.UnixNano()-last < int64(l.idleTTL) || !l.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	cutoff := now.Add(-l.idleTTL).UnixNano()
	l.limiters.Range(func(k, v any) bool {
		if v.(*ipLimiter).lastSeen.Load() < cutoff {
			l.limiters.Delete(k)
		}
		return true
	})
}

// tracked returns the number of IPs currently held.
func (l *LoginRateLimiter) tracked() int {
	n := 0
	l.limiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Middleware rejects over-limit requests with 429. A nil limiter lets everything through.
func (l *LoginRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || l.limit <= 0 {
			c.Next()
			return
		}
		ip := c.ClientIP()
		now := l.now()
		l.evictIdle(now)
		lim := l.limiter(ip, now)
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", l.burst))

		if !lim.Allow() {
			retry := time.Duration(float64(time.Second) / float64(l.limit))
			c.Header("Retry-After", fmt.Sprintf("%d", int(retry.Seconds()+0.999)))
			logger.Warnf("Login rate limit hit for %s", ip)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorBody{
				Error:     "Too many attempts, try again later",
				Retryable: true,
			})
			return
		}
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", int(lim.Tokens())))
		c.Next()
	}
}
