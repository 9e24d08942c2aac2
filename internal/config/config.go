package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/helmhq/helm/ai-gateway/internal/retry"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// DevelopmentAIServiceURL is used when AI_SERVICE_URL is unset in development
const DevelopmentAIServiceURL = "http://localhost:8001"

const minProductionSecretLength = 32

// Config holds the gateway configuration
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Port        int    `env:"PORT" envDefault:"8080"`

	AIService AIServiceConfig `envPrefix:"AI_"`

	JWTSecret string `env:"JWT_SECRET"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns          int32         `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
	MigrateOnStart      bool          `env:"DB_MIGRATE_ON_START" envDefault:"true"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`

	UsageBufferSize   int           `env:"USAGE_BUFFER_SIZE" envDefault:"256"`
	ReadinessCacheTTL time.Duration `env:"READINESS_CACHE_TTL" envDefault:"5s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	StartupRetry retry.Config `envPrefix:"STARTUP_RETRY_"`

	OTelStdoutEnabled bool `env:"OTEL_STDOUT_ENABLED" envDefault:"false"`

	// Warnings collects non-fatal notes produced while loading, logged once
	// the logger exists.
	Warnings []string
}

type AIServiceConfig struct {
	URL                string        `env:"SERVICE_URL"`
	Token              string        `env:"SERVICE_TOKEN"`
	Timeout            time.Duration `env:"SERVICE_TIMEOUT" envDefault:"60s"`
	HealthTimeout      time.Duration `env:"SERVICE_HEALTH_TIMEOUT" envDefault:"5s"`
	BreakerMaxFailures uint32        `env:"BREAKER_MAX_FAILURES" envDefault:"5"`
	BreakerOpenTimeout time.Duration `env:"BREAKER_OPEN_TIMEOUT" envDefault:"30s"`

	ConnectTimeout        time.Duration `env:"SERVICE_CONNECT_TIMEOUT" envDefault:"10s"`
	ResponseHeaderTimeout time.Duration `env:"SERVICE_RESPONSE_HEADER_TIMEOUT" envDefault:"0s"`
	KeepAlive             time.Duration `env:"SERVICE_KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"SERVICE_IDLE_CONN_TIMEOUT" envDefault:"90s"`
	MaxIdleConnsPerHost   int           `env:"SERVICE_MAX_IDLE_CONNS_PER_HOST" envDefault:"10"`
}

// RateLimitConfig is per user; PerMinute zero disables limiting
type RateLimitConfig struct {
	PerMinute int `env:"PER_MINUTE" envDefault:"60"`
	Burst     int `env:"BURST" envDefault:"10"`
}

// IsDevelopment reports whether development fallbacks are allowed
func (c *Config) IsDevelopment() bool {
	switch strings.ToLower(c.Environment) {
	case "development", "dev", "local":
		return true
	default:
		return false
	}
}

// Addr is the HTTP listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads an optional .env file for ENVIRONMENT and then the process
// environment. Outside development every missing required value is an error.
func Load() (*Config, error) {
	envFile := getEnvFile(os.Getenv("ENVIRONMENT"))

	var warnings []string
	// Containers usually inject variables directly, so a missing file is fine
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		warnings = append(warnings, fmt.Sprintf("could not load %s: %v", envFile, err))
	}

	cfg, err := Parse(env.ToMap(os.Environ()))
	if err != nil {
		return nil, err
	}
	cfg.Warnings = append(warnings, cfg.Warnings...)
	return cfg, nil
}

// Parse builds a Config from the given variables without touching the
// process environment.
func Parse(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	dev := c.IsDevelopment()

	if c.AIService.URL == "" {
		if dev {
			c.AIService.URL = DevelopmentAIServiceURL
			c.Warnings = append(c.Warnings,
				fmt.Sprintf("AI_SERVICE_URL not set, using development default %s", DevelopmentAIServiceURL))
		} else {
			errs = append(errs, errors.New("AI_SERVICE_URL is required outside development"))
		}
	}
	if c.AIService.URL != "" {
		if err := validateServiceURL(c.AIService.URL); err != nil {
			errs = append(errs, fmt.Errorf("AI_SERVICE_URL: %w", err))
		}
	}

	if c.AIService.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("AI_SERVICE_TIMEOUT must be positive, got %s", c.AIService.Timeout))
	}
	if c.AIService.BreakerMaxFailures == 0 {
		errs = append(errs, errors.New("AI_BREAKER_MAX_FAILURES must be at least 1"))
	}
	if c.AIService.ConnectTimeout < 0 || c.AIService.ResponseHeaderTimeout < 0 ||
		c.AIService.KeepAlive < 0 || c.AIService.IdleConnTimeout < 0 || c.AIService.MaxIdleConnsPerHost < 0 {
		errs = append(errs, errors.New("AI_SERVICE transport settings must not be negative"))
	}
	if c.AIService.ResponseHeaderTimeout > c.AIService.Timeout {
		errs = append(errs, fmt.Errorf("AI_SERVICE_RESPONSE_HEADER_TIMEOUT (%s) must not exceed AI_SERVICE_TIMEOUT (%s)",
			c.AIService.ResponseHeaderTimeout, c.AIService.Timeout))
	}

	switch {
	case c.JWTSecret == "":
		errs = append(errs, errors.New("JWT_SECRET is required"))
	case !dev && len(c.JWTSecret) < minProductionSecretLength:
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters outside development", minProductionSecretLength))
	}

	if c.DatabaseURL == "" {
		if dev {
			c.Warnings = append(c.Warnings, "DATABASE_URL not set, proposal decisions are kept in memory")
		} else {
			errs = append(errs, errors.New("DATABASE_URL is required outside development"))
		}
	}

	if c.DBMaxConns < 1 || c.DBMaxConns > 200 {
		errs = append(errs, fmt.Errorf("DB_MAX_CONNS must be between 1 and 200, got %d", c.DBMaxConns))
	}
	if c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		errs = append(errs, fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", c.DBMaxConns, c.DBMinConns))
	}

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	if c.RateLimit.PerMinute < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative, got %d", c.RateLimit.PerMinute))
	}
	if c.RateLimit.PerMinute > 0 && c.RateLimit.Burst < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled, got %d", c.RateLimit.Burst))
	}

	if c.UsageBufferSize < 1 {
		errs = append(errs, fmt.Errorf("USAGE_BUFFER_SIZE must be at least 1, got %d", c.UsageBufferSize))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %w", errors.Join(errs...))
	}
	return nil
}

func validateServiceURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("host is missing")
	}
	return nil
}

func getEnvFile(environment string) string {
	switch strings.ToLower(environment) {
	case "prod", "production":
		return ".env.prod"
	case "", "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
