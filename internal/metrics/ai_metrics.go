package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("ai-gateway")

// AIMetrics provides metrics collection for calls proxied to the AI service
type AIMetrics struct {
	requestsCounter  metric.Int64Counter
	failuresCounter  metric.Int64Counter
	tokensCounter    metric.Int64Counter
	costCounter      metric.Float64Counter
	latencyHistogram metric.Float64Histogram
}

// NewAIMetrics creates a new AI metrics collector
func NewAIMetrics() (*AIMetrics, error) {
	requestsCounter, err := meter.Int64Counter(
		"helm.ai.requests",
		metric.WithDescription("Total number of AI service calls that returned a usable body"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	failuresCounter, err := meter.Int64Counter(
		"helm.ai.failures",
		metric.WithDescription("Total number of AI service calls that failed, by failure kind"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	tokensCounter, err := meter.Int64Counter(
		"helm.ai.tokens",
		metric.WithDescription("Tokens reported by the AI service usage stats"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, err
	}

	costCounter, err := meter.Float64Counter(
		"helm.ai.estimated_cost",
		metric.WithDescription("Estimated cost reported by the AI service usage stats"),
		metric.WithUnit("USD"),
	)
	if err != nil {
		return nil, err
	}

	latencyHistogram, err := meter.Float64Histogram(
		"helm.ai.latency",
		metric.WithDescription("Duration of AI service calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &AIMetrics{
		requestsCounter:  requestsCounter,
		failuresCounter:  failuresCounter,
		tokensCounter:    tokensCounter,
		costCounter:      costCounter,
		latencyHistogram: latencyHistogram,
	}, nil
}

// RecordUsage records a completed AI call and the usage it reported.
// provider and model may be empty when the response carried no usage stats.
func (m *AIMetrics) RecordUsage(ctx context.Context, operation, provider, model string, tokens int64, cost float64, latency time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("provider", provider),
		attribute.String("model", model),
	)

	m.requestsCounter.Add(ctx, 1, attrs)
	m.latencyHistogram.Record(ctx, latency.Seconds(), attrs)
	if tokens > 0 {
		m.tokensCounter.Add(ctx, tokens, attrs)
	}
	if cost > 0 {
		m.costCounter.Add(ctx, cost, attrs)
	}
}

// RecordFailure records a failed AI call
func (m *AIMetrics) RecordFailure(ctx context.Context, operation, kind string, latency time.Duration) {
	m.failuresCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("error.type", kind),
		),
	)
	m.latencyHistogram.Record(ctx, latency.Seconds(),
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status", "failed"),
		),
	)
}
