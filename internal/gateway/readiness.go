package gateway

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	readinessCacheKey   = "readiness"
	readinessCheckLimit = 3 * time.Second
)

// Check probes one dependency
type Check func(ctx context.Context) error

// ReadinessReport is the body of GET /ready
type ReadinessReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Readiness runs dependency checks and caches the outcome for ttl so probes
// don't hammer the database or the AI service.
type Readiness struct {
	checks map[string]Check
	cache  *cache.Cache // nil when ttl is not positive
	mu     sync.Mutex
}

func NewReadiness(ttl time.Duration, checks map[string]Check) *Readiness {
	r := &Readiness{checks: checks}
	if ttl > 0 {
		r.cache = cache.New(ttl, 2*ttl)
	}
	return r
}

// Report returns the cached report or runs the checks
func (r *Readiness) Report(ctx context.Context) ReadinessReport {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cache != nil {
		if v, found := r.cache.Get(readinessCacheKey); found {
			return v.(ReadinessReport)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, readinessCheckLimit)
	defer cancel()

	report := ReadinessReport{Status: "ready", Checks: make(map[string]string, len(r.checks))}
	for name, check := range r.checks {
		if err := check(ctx); err != nil {
			ctxzap.Extract(ctx).Warn("Readiness check failed", zap.String("check", name), zap.Error(err))
			report.Status = "not ready"
			report.Checks[name] = "unavailable"
			continue
		}
		report.Checks[name] = "ok"
	}

	if r.cache != nil {
		r.cache.SetDefault(readinessCacheKey, report)
	}
	return report
}

// Handle serves GET /ready
func (r *Readiness) Handle(c *gin.Context) {
	report := r.Report(c.Request.Context())
	status := http.StatusOK
	if report.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}
