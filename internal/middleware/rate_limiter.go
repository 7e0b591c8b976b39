package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/hospital-scheduling/pkg/httputil"
)

type RateLimiterConfig struct {
	RPS   float64
	Burst int
	// IdleTTL drops limiters of clients not seen for this long.
	IdleTTL time.Duration
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	config  RateLimiterConfig
	sweep   time.Time
	now     func() time.Time
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.IdleTTL <= 0 {
		config.IdleTTL = 3 * time.Minute
	}
	return &RateLimiter{
		clients: make(map[string]*client),
		config:  config,
		now:     time.Now,
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.sweep) > rl.config.IdleTTL {
		for k, cl := range rl.clients {
			if now.Sub(cl.lastSeen) > rl.config.IdleTTL {
				delete(rl.clients, k)
			}
		}
		rl.sweep = now
	}

	cl, ok := rl.clients[key]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(rate.Limit(rl.config.RPS), rl.config.Burst)}
		rl.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httputil.NewErrorResponse("rate limit exceeded"))
			return
		}
		c.Next()
	}
}
