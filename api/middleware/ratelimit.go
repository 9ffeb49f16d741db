package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/pagelens/pagelens/config"
)

const (
	// limiterIdleTTL is how long an identity may sit unused before its
	// bucket is dropped.
	limiterIdleTTL = time.Hour

	// limiterSweepEvery is the interval between idle-bucket sweeps.
	limiterSweepEvery = 5 * time.Minute
)

// limiterPool hands out one token bucket per caller identity and sweeps
// idle entries so the map cannot grow without bound.
type limiterPool struct {
	mu   sync.Mutex
	cfg  config.RateLimitConfig
	byID map[string]*clientLimiter
}

type clientLimiter struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

func newLimiterPool(cfg config.RateLimitConfig) *limiterPool {
	p := &limiterPool{cfg: cfg, byID: make(map[string]*clientLimiter)}
	go p.sweep()
	return p
}

// allow takes one token from the identity's bucket, creating the bucket on
// first sight.
func (p *limiterPool) allow(identity string) bool {
	p.mu.Lock()
	cl, ok := p.byID[identity]
	if !ok {
		cl = &clientLimiter{
			bucket: rate.NewLimiter(rate.Limit(p.cfg.RequestsPerSecond), p.cfg.Burst),
		}
		p.byID[identity] = cl
	}
	cl.lastSeen = time.Now()
	p.mu.Unlock()

	return cl.bucket.Allow()
}

func (p *limiterPool) sweep() {
	ticker := time.NewTicker(limiterSweepEvery)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-limiterIdleTTL)
		p.mu.Lock()
		for id, cl := range p.byID {
			if cl.lastSeen.Before(cutoff) {
				delete(p.byID, id)
			}
		}
		p.mu.Unlock()
	}
}

// RateLimit throttles callers to the configured sustained rate and burst,
// keyed by API key when authentication ran, otherwise by client IP.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	pool := newLimiterPool(cfg)

	return func(c *gin.Context) {
		identity := c.GetString(identityKey)
		if identity == "" {
			identity = c.ClientIP()
		}

		if !pool.allow(identity) {
			abort(c, http.StatusTooManyRequests, "rate limit exceeded, please slow down")
			return
		}

		c.Next()
	}
}
