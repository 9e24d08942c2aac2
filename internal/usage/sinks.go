package usage

import (
	"context"

	"github.com/helmhq/helm/ai-gateway/internal/metrics"
	"go.uber.org/zap"
)

// LogSink writes one structured line per successful AI call
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger.Named("usage")}
}

func (s *LogSink) Record(_ context.Context, e Event) {
	if e.FailureKind != "" {
		return
	}

	fields := []zap.Field{
		zap.String("request_id", e.RequestID),
		zap.String("user_id", e.UserID),
		zap.String("project_id", e.ProjectID),
		zap.String("operation", string(e.Operation)),
		zap.Int64("latency_ms", e.Latency.Milliseconds()),
		zap.Time("recorded_at", e.RecordedAt),
	}

	if e.Stats == nil {
		s.logger.Info("AI usage", append(fields, zap.Bool("usage_stats_present", false))...)
		return
	}

	s.logger.Info("AI usage", append(fields,
		zap.Bool("usage_stats_present", true),
		zap.Int64("tokens_used", e.Stats.TokensUsed),
		zap.Float64("estimated_cost", e.Stats.EstimatedCost),
		zap.String("provider", e.Stats.Provider),
		zap.String("model", e.Stats.Model),
	)...)
}

// MetricsSink forwards events to OpenTelemetry instruments
type MetricsSink struct {
	metrics *metrics.AIMetrics
}

func NewMetricsSink(m *metrics.AIMetrics) *MetricsSink {
	return &MetricsSink{metrics: m}
}

func (s *MetricsSink) Record(ctx context.Context, e Event) {
	if e.FailureKind != "" {
		s.metrics.RecordFailure(ctx, string(e.Operation), e.FailureKind, e.Latency)
		return
	}

	if e.Stats == nil {
		s.metrics.RecordUsage(ctx, string(e.Operation), "", "", 0, 0, e.Latency)
		return
	}
	s.metrics.RecordUsage(ctx, string(e.Operation), e.Stats.Provider, e.Stats.Model,
		e.Stats.TokensUsed, e.Stats.EstimatedCost, e.Latency)
}
