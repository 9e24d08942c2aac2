package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/helmhq/helm/ai-gateway/internal/models"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	idleExpiry      = 10 * time.Minute
	cleanupInterval = time.Minute
)

// KeyFunc picks the bucket a request is charged to. An empty key skips
// limiting for that request.
type KeyFunc func(c *gin.Context) string

// Limiter hands out one token bucket per key. Buckets of idle keys expire.
type Limiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	buckets *cache.Cache
}

// New allows perMinute requests per key with the given burst.
// perMinute <= 0 returns nil, which disables limiting.
func New(perMinute, burst int) *Limiter {
	if perMinute <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		buckets: cache.New(idleExpiry, cleanupInterval),
	}
}

// Reserve takes a token for key, reporting how long to wait when none is left
func (l *Limiter) Reserve(key string, now time.Time) (ok bool, retryAfter time.Duration) {
	limiter := l.bucket(key)

	r := limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Minute
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, found := l.buckets.Get(key); found {
		limiter := v.(*rate.Limiter)
		// Touch to push back expiry while the key is active
		l.buckets.SetDefault(key, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(l.limit, l.burst)
	l.buckets.SetDefault(key, limiter)
	return limiter
}

// Middleware rejects requests over the limit with 429 and Retry-After.
// A nil Limiter lets everything through.
func Middleware(l *Limiter, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}

		k := key(c)
		if k == "" {
			c.Next()
			return
		}

		ok, retryAfter := l.Reserve(k, time.Now())
		if ok {
			c.Next()
			return
		}

		seconds := int(math.Ceil(retryAfter.Seconds()))
		if seconds < 1 {
			seconds = 1
		}

		ctxzap.Extract(c.Request.Context()).Warn("Rate limit exceeded",
			zap.String("key", k),
			zap.Int("retry_after_s", seconds),
		)

		c.Header("Retry-After", strconv.Itoa(seconds))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
			Error: "Too many AI requests, slow down",
			Code:  models.ErrCodeRateLimited,
		})
	}
}
