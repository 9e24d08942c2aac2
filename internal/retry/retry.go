package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

const (
	defaultAttempts = 5
	defaultDelay    = 500 * time.Millisecond
	defaultMaxDelay = 5 * time.Second
)

// Config controls retries of startup probes. Paid AI calls are never retried.
type Config struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"5"`
	Delay    time.Duration `env:"DELAY" envDefault:"500ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"5s"`
}

func DefaultConfig() Config {
	return Config{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
	}
}

// Options converts the config into retry-go options bound to ctx.
// Each failed attempt is logged under the given probe name.
func (c Config) Options(ctx context.Context, logger *zap.Logger, probe string) []retry.Option {
	attempts := c.Attempts
	if attempts == 0 {
		attempts = 1
	}

	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(c.Delay),
		retry.MaxDelay(c.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("probe attempt failed",
				zap.String("probe", probe),
				zap.Uint("attempt", n+1),
				zap.Uint("max_attempts", attempts),
				zap.Error(err),
			)
		}),
	}
}

// Do runs fn until it succeeds, attempts run out or ctx is done
func Do(ctx context.Context, cfg Config, logger *zap.Logger, probe string, fn func(ctx context.Context) error) error {
	return retry.Do(func() error {
		return fn(ctx)
	}, cfg.Options(ctx, logger, probe)...)
}
