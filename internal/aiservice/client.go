package aiservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/helmhq/helm/ai-gateway/internal/models"
	"github.com/helmhq/helm/ai-gateway/pkg/httpclient"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	validatePath       = "/validate"
	answerQuestionPath = "/answer-question"
	healthPath         = "/health"
)

// ClientInterface defines the calls the proxy service makes to the AI service
type ClientInterface interface {
	Validate(ctx context.Context, req models.EnrichedValidationRequest) (json.RawMessage, error)
	AnswerQuestion(ctx context.Context, req models.EnrichedQuestionRequest) (json.RawMessage, error)
	Health(ctx context.Context) error
}

var _ ClientInterface = (*Client)(nil)

// Config holds the connection settings for the AI service
type Config struct {
	BaseURL            string
	Token              string
	Timeout            time.Duration
	HealthTimeout      time.Duration
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration

	// Transport tuning; zero keeps the connector defaults
	ConnectTimeout        time.Duration
	ResponseHeaderTimeout time.Duration
	KeepAlive             time.Duration
	IdleConnTimeout       time.Duration
	MaxIdleConnsPerHost   int
}

func (cfg Config) connectorOptions() []httpclient.Option {
	opts := []httpclient.Option{
		httpclient.WithRequestTimeout(cfg.Timeout),
		httpclient.WithRequestLogging(),
		httpclient.WithBearerToken(cfg.Token),
	}
	if cfg.ConnectTimeout > 0 {
		opts = append(opts, httpclient.WithConnTimeout(cfg.ConnectTimeout))
	}
	if cfg.ResponseHeaderTimeout > 0 {
		opts = append(opts, httpclient.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout))
	}
	if cfg.KeepAlive > 0 {
		opts = append(opts, httpclient.WithKeepAlive(cfg.KeepAlive))
	}
	if cfg.IdleConnTimeout > 0 {
		opts = append(opts, httpclient.WithIdleConnTimeout(cfg.IdleConnTimeout))
	}
	if cfg.MaxIdleConnsPerHost > 0 {
		opts = append(opts, httpclient.WithMaxIdleConnsPerHost(cfg.MaxIdleConnsPerHost))
	}
	return opts
}

// Client handles communication with the external AI service
type Client struct {
	connector     *httpclient.Connector
	tracer        trace.Tracer
	breaker       *gobreaker.CircuitBreaker
	healthTimeout time.Duration
}

// NewClient creates a new AI service client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BreakerMaxFailures == 0 {
		cfg.BreakerMaxFailures = 5
	}
	if cfg.BreakerOpenTimeout == 0 {
		cfg.BreakerOpenTimeout = 30 * time.Second
	}
	if cfg.HealthTimeout == 0 {
		cfg.HealthTimeout = 5 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "ai-service",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerMaxFailures
		},
		IsSuccessful: func(err error) bool {
			return !countsAgainstBreaker(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &Client{
		connector:     httpclient.NewConnector(cfg.BaseURL, cfg.connectorOptions()...),
		tracer:        otel.Tracer("ai-service-client"),
		breaker:       gobreaker.NewCircuitBreaker(settings),
		healthTimeout: cfg.HealthTimeout,
	}
}

// BaseURL returns the AI service base URL
func (c *Client) BaseURL() string {
	return c.connector.BaseURL()
}

// Validate forwards an enriched validation request to POST /validate
func (c *Client) Validate(ctx context.Context, req models.EnrichedValidationRequest) (json.RawMessage, error) {
	ctx, span := c.tracer.Start(ctx, "ai_service.validate")
	defer span.End()

	span.SetAttributes(
		attribute.String("project.id", req.ProjectID),
		attribute.String("component.type", req.ComponentType),
		attribute.String("validation.scope", string(req.ValidationScope)),
	)

	return c.post(ctx, span, validatePath, req, checkObject)
}

// AnswerQuestion forwards a question to POST /answer-question
func (c *Client) AnswerQuestion(ctx context.Context, req models.EnrichedQuestionRequest) (json.RawMessage, error) {
	ctx, span := c.tracer.Start(ctx, "ai_service.answer_question")
	defer span.End()

	span.SetAttributes(attribute.String("project.id", req.ProjectID))

	return c.post(ctx, span, answerQuestionPath, req, checkJSON)
}

func (c *Client) post(ctx context.Context, span trace.Span, path string, payload any, check func([]byte) error) (json.RawMessage, error) {
	headers := http.Header{}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(headers))

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.connector.DoRaw(ctx, http.MethodPost, path, payload, headers)
	})
	if err != nil {
		aiErr := classify(err)
		span.RecordError(aiErr)
		span.SetStatus(codes.Error, string(aiErr.Kind))
		span.SetAttributes(attribute.String("ai.failure_kind", string(aiErr.Kind)))
		return nil, aiErr
	}

	body := result.([]byte)
	if err := check(body); err != nil {
		aiErr := &Error{Kind: KindMalformedBody, Err: err}
		span.RecordError(aiErr)
		span.SetStatus(codes.Error, string(aiErr.Kind))
		return nil, aiErr
	}

	span.SetAttributes(attribute.Int("ai.response_bytes", len(body)))
	return json.RawMessage(body), nil
}

// Health probes GET /health. It bypasses the breaker so probes never trip it.
func (c *Client) Health(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "ai_service.health_check")
	defer span.End()

	if c.breaker.State() == gobreaker.StateOpen {
		span.SetAttributes(attribute.Bool("healthy", false), attribute.String("reason", "circuit_breaker_open"))
		return &Error{Kind: KindCircuitOpen, Err: ErrCircuitOpen}
	}

	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	if _, err := c.connector.DoRaw(ctx, http.MethodGet, healthPath, nil, nil); err != nil {
		aiErr := classify(err)
		span.RecordError(aiErr)
		span.SetAttributes(attribute.Bool("healthy", false))
		return aiErr
	}

	span.SetAttributes(attribute.Bool("healthy", true))
	return nil
}

// checkJSON accepts any JSON document. Answers have no fixed shape.
func checkJSON(body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.New("empty response body")
	}
	if !json.Valid(body) {
		return fmt.Errorf("response is not valid JSON (%d bytes)", len(body))
	}
	return nil
}

// checkObject requires a JSON object, the shape of a validation response
func checkObject(body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return errors.New("empty response body")
	}
	if trimmed[0] != '{' || !json.Valid(trimmed) {
		return fmt.Errorf("response is not a JSON object (%d bytes)", len(body))
	}
	return nil
}
