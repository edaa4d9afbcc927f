package api

import (
	"net/http"
	"strconv"
	"sync"

	"structiv/internal/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// rateLimiter keeps one token bucket per client key.
type rateLimiter struct {
	limiters sync.Map
	cfg      config.APIRateLimitConfig
}

func newRateLimiter(cfg config.APIRateLimitConfig) *rateLimiter {
	return &rateLimiter{
		cfg: cfg,
	}
}

func (l *rateLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim
		}
	}

	burst := l.cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(l.cfg.RPS), burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		if actualLim, ok := actual.(*rate.Limiter); ok {
			return actualLim
		}
	}
	return lim
}

// middleware rejects requests over the limit with 429. A zero RPS disables it.
func (l *rateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.cfg.RPS <= 0 {
			c.Next()
			return
		}
		if !l.getLimiter(clientKey(c)).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please try again later"})
			return
		}
		c.Next()
	}
}

func clientKey(c *gin.Context) string {
	if p, ok := principalFrom(c); ok {
		return "user:" + strconv.FormatInt(p.UserID, 10)
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
