package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/helmhq/helm/ai-gateway/internal/ai"
	"github.com/helmhq/helm/ai-gateway/internal/aiservice"
	"github.com/helmhq/helm/ai-gateway/internal/auth"
	"github.com/helmhq/helm/ai-gateway/internal/config"
	"github.com/helmhq/helm/ai-gateway/internal/gateway"
	"github.com/helmhq/helm/ai-gateway/internal/logger"
	"github.com/helmhq/helm/ai-gateway/internal/metrics"
	"github.com/helmhq/helm/ai-gateway/internal/proposals"
	"github.com/helmhq/helm/ai-gateway/internal/ratelimit"
	"github.com/helmhq/helm/ai-gateway/internal/retry"
	"github.com/helmhq/helm/ai-gateway/internal/usage"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	_ "github.com/helmhq/helm/ai-gateway/docs" // swagger docs
)

// @title Helm AI Gateway API
// @version 1.0
// @description Authenticated proxy between the Helm web app and the AI validation service.
// @description
// @description Validates project components, answers project questions and records proposal decisions.
// @description AI service responses are returned unchanged; failures are reported with an opaque error.

// @contact.name Helm Support
// @contact.email support@helm.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	if err := run(cfg, log); err != nil {
		log.Fatal("AI gateway stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	for _, w := range cfg.Warnings {
		log.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := initTracer(cfg.OTelStdoutEnabled)
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(flushCtx); err != nil {
			log.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	checks := map[string]gateway.Check{}

	var store proposals.Store
	if cfg.DatabaseURL != "" {
		pool, err := connectDatabase(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer pool.Close()

		if cfg.MigrateOnStart {
			if err := proposals.RunMigrations(cfg.DatabaseURL); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			log.Info("Database migrations applied")
		}

		pgStore := proposals.NewPostgresStore(pool)
		checks["database"] = pgStore.Ping
		store = pgStore
	} else {
		store = proposals.NewMemoryStore()
	}

	aiClient := aiservice.NewClient(aiservice.Config{
		BaseURL:            cfg.AIService.URL,
		Token:              cfg.AIService.Token,
		Timeout:            cfg.AIService.Timeout,
		HealthTimeout:      cfg.AIService.HealthTimeout,
		BreakerMaxFailures: cfg.AIService.BreakerMaxFailures,
		BreakerOpenTimeout: cfg.AIService.BreakerOpenTimeout,

		ConnectTimeout:        cfg.AIService.ConnectTimeout,
		ResponseHeaderTimeout: cfg.AIService.ResponseHeaderTimeout,
		KeepAlive:             cfg.AIService.KeepAlive,
		IdleConnTimeout:       cfg.AIService.IdleConnTimeout,
		MaxIdleConnsPerHost:   cfg.AIService.MaxIdleConnsPerHost,
	}, log)
	checks["ai_service"] = aiClient.Health

	// The AI service may come up after us; readiness reports it until then
	if err := retry.Do(ctx, cfg.StartupRetry, log, "ai_service", aiClient.Health); err != nil {
		log.Warn("AI service not reachable at startup", zap.String("url", aiClient.BaseURL()), zap.Error(err))
	}

	aiMetrics, err := metrics.NewAIMetrics()
	if err != nil {
		return fmt.Errorf("create AI metrics: %w", err)
	}
	recorder := usage.NewRecorder(cfg.UsageBufferSize, log,
		usage.NewLogSink(log),
		usage.NewMetricsSink(aiMetrics),
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("initialize JWT manager: %w", err)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gateway.NewRouter(gateway.RouterConfig{
		Handler:    gateway.NewHandler(ai.NewService(aiClient, store, recorder)),
		JWTManager: jwtManager,
		Limiter:    ratelimit.New(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst),
		Readiness:  gateway.NewReadiness(cfg.ReadinessCacheTTL, checks),
		Logger:     log,
		Swagger:    true,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// AI calls are synchronous, so writes must outlast the AI timeout
		WriteTimeout: cfg.AIService.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting AI gateway",
			zap.String("addr", server.Addr),
			zap.String("environment", cfg.Environment),
			zap.String("ai_service_url", aiClient.BaseURL()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := recorder.Close(shutdownCtx); err != nil {
		log.Warn("Usage events not fully delivered", zap.Error(err))
	}

	log.Info("Server exited")
	return nil
}

func connectDatabase(ctx context.Context, cfg *config.Config, log *zap.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MinConns = cfg.DBMinConns
	poolCfg.MaxConnLifetime = cfg.DBMaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	poolCfg.HealthCheckPeriod = cfg.DBHealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	log.Info("Connecting to PostgreSQL database...")
	if err := retry.Do(ctx, cfg.StartupRetry, log, "database", pool.Ping); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to database after retries: %w", err)
	}
	log.Info("Connected to PostgreSQL database")

	return pool, nil
}

// initTracer installs the global tracer provider and W3C propagation.
// Spans are only exported when stdout export is enabled.
func initTracer(stdout bool) (func(context.Context) error, error) {
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", "helm-ai-gateway"),
	))
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if stdout {
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}
