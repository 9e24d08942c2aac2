// Command ai-healthcheck probes the AI service /health endpoint, retrying
// with backoff, and exits non-zero when it never becomes healthy.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/helmhq/helm/ai-gateway/internal/aiservice"
	"github.com/helmhq/helm/ai-gateway/internal/config"
	"github.com/helmhq/helm/ai-gateway/internal/logger"
	"github.com/helmhq/helm/ai-gateway/internal/retry"
	"go.uber.org/zap"
)

func main() {
	defaultURL := os.Getenv("AI_SERVICE_URL")
	if defaultURL == "" {
		defaultURL = config.DevelopmentAIServiceURL
	}

	url := flag.String("url", defaultURL, "AI service base URL")
	token := flag.String("token", os.Getenv("AI_SERVICE_TOKEN"), "Bearer token for the AI service")
	timeout := flag.Duration("timeout", 5*time.Second, "Timeout of a single probe")
	attempts := flag.Uint("attempts", 5, "Number of probes before giving up")
	verbose := flag.Bool("v", false, "Log every attempt")
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log, err := logger.New(level, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	client := aiservice.NewClient(aiservice.Config{
		BaseURL:       *url,
		Token:         *token,
		HealthTimeout: *timeout,
	}, log)

	cfg := retry.DefaultConfig()
	cfg.Attempts = *attempts

	start := time.Now()
	if err := retry.Do(context.Background(), cfg, log, "ai_service", client.Health); err != nil {
		log.Error("AI service unhealthy",
			zap.String("url", client.BaseURL()),
			zap.String("failure_kind", string(aiservice.Classify(err))),
			zap.Error(err),
		)
		os.Exit(1)
	}

	fmt.Printf("AI service at %s is healthy (%s)\n", client.BaseURL(), time.Since(start).Round(time.Millisecond))
}
