package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/helmhq/helm/ai-gateway/internal/aiservice"
	"github.com/helmhq/helm/ai-gateway/internal/logger"
	"github.com/helmhq/helm/ai-gateway/internal/models"
	"github.com/helmhq/helm/ai-gateway/internal/proposals"
	"github.com/helmhq/helm/ai-gateway/internal/usage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("ai-proxy-service")

// Operation names a proxy service call
type Operation = usage.Operation

const (
	OpValidate       = usage.OpValidate
	OpAnswerQuestion = usage.OpAnswerQuestion
)

// Service enriches requests with the caller identity, forwards them to the
// AI service and meters usage off the request path.
type Service struct {
	client aiservice.ClientInterface
	store  proposals.Store
	usage  usage.Emitter
	now    func() time.Time
}

func NewService(client aiservice.ClientInterface, store proposals.Store, emitter usage.Emitter) *Service {
	return &Service{
		client: client,
		store:  store,
		usage:  emitter,
		now:    time.Now,
	}
}

// Validate forwards a component to the AI service and returns its body
// unchanged. projectID, when set, overrides the project named in req.
func (s *Service) Validate(ctx context.Context, req models.ValidationRequest, userID, projectID string) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "ai.validate")
	defer span.End()

	if userID == "" {
		return nil, ErrMissingIdentity
	}
	if !req.ValidationScope.Valid() {
		return nil, ErrInvalidScope
	}

	enriched := models.EnrichedValidationRequest{ValidationRequest: req, UserID: userID}
	if projectID != "" {
		enriched.ProjectID = projectID
	}

	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("project.id", enriched.ProjectID),
		attribute.String("validation.scope", string(req.ValidationScope)),
	)
	ctx = logger.AddFields(logger.WithAction(ctx, "ai.validate"),
		zap.String("user_id", userID),
		zap.String("project_id", enriched.ProjectID),
	)

	start := s.now()
	body, err := s.client.Validate(ctx, enriched)
	latency := s.now().Sub(start)
	if err != nil {
		return nil, s.fail(ctx, span, OpValidate, userID, enriched.ProjectID, latency, err)
	}

	s.LogAIUsage(ctx, OpValidate, userID, enriched.ProjectID, body, latency)
	return body, nil
}

// AnswerQuestion forwards a project question to the AI service and returns
// its body unchanged.
func (s *Service) AnswerQuestion(ctx context.Context, projectID, question, userID string) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "ai.answer_question")
	defer span.End()

	if userID == "" {
		return nil, ErrMissingIdentity
	}

	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("project.id", projectID),
	)
	ctx = logger.AddFields(logger.WithAction(ctx, "ai.answer_question"),
		zap.String("user_id", userID),
		zap.String("project_id", projectID),
	)

	start := s.now()
	body, err := s.client.AnswerQuestion(ctx, models.EnrichedQuestionRequest{
		ProjectID: projectID,
		Question:  question,
		UserID:    userID,
	})
	latency := s.now().Sub(start)
	if err != nil {
		return nil, s.fail(ctx, span, OpAnswerQuestion, userID, projectID, latency, err)
	}

	s.LogAIUsage(ctx, OpAnswerQuestion, userID, projectID, body, latency)
	return body, nil
}

// AcceptProposal records that userID accepted the proposal. Proposals the
// gateway has never seen are accepted as well.
func (s *Service) AcceptProposal(ctx context.Context, proposalID string, modifications map[string]any, userID string) (*models.AcceptProposalResponse, error) {
	if _, err := s.decide(ctx, proposals.Decision{
		ProposalID:    proposalID,
		Status:        proposals.StatusAccepted,
		DecidedBy:     userID,
		Modifications: modifications,
	}); err != nil {
		return nil, err
	}

	return &models.AcceptProposalResponse{
		Success:    true,
		ProposalID: proposalID,
		AppliedBy:  userID,
	}, nil
}

// RejectProposal records that userID rejected the proposal
func (s *Service) RejectProposal(ctx context.Context, proposalID, feedback, userID string) (*models.RejectProposalResponse, error) {
	d := proposals.Decision{
		ProposalID: proposalID,
		Status:     proposals.StatusRejected,
		DecidedBy:  userID,
	}
	if feedback != "" {
		d.Feedback = &feedback
	}

	if _, err := s.decide(ctx, d); err != nil {
		return nil, err
	}

	return &models.RejectProposalResponse{
		Success:    true,
		ProposalID: proposalID,
		RejectedBy: userID,
	}, nil
}

// LogAIUsage meters a successful AI response body for op. usage_stats is read
// tolerantly. It never blocks and never fails the request.
func (s *Service) LogAIUsage(ctx context.Context, op Operation, userID, projectID string, body []byte, latency time.Duration) {
	s.usage.Emit(usage.Event{
		RequestID:  logger.RequestID(ctx),
		UserID:     userID,
		ProjectID:  projectID,
		Operation:  op,
		Stats:      usage.Extract(body),
		Latency:    latency,
		RecordedAt: s.now().UTC(),
	})
}

func (s *Service) decide(ctx context.Context, d proposals.Decision) (*proposals.Decision, error) {
	ctx, span := tracer.Start(ctx, "ai.decide_proposal")
	defer span.End()

	if d.DecidedBy == "" {
		return nil, ErrMissingIdentity
	}
	if d.ProposalID == "" {
		return nil, ErrMissingProposalID
	}

	span.SetAttributes(
		attribute.String("proposal.id", d.ProposalID),
		attribute.String("proposal.decision", string(d.Status)),
		attribute.String("user.id", d.DecidedBy),
	)

	stored, err := s.store.Decide(ctx, d)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("record %s decision for proposal %s: %w", d.Status, d.ProposalID, err)
	}

	ctxzap.Extract(ctx).Info("Proposal decision recorded",
		zap.String("proposal_id", stored.ProposalID),
		zap.String("decision", string(stored.Status)),
		zap.String("decided_by", stored.DecidedBy),
	)
	return stored, nil
}

func (s *Service) fail(ctx context.Context, span trace.Span, op Operation, userID, projectID string, latency time.Duration, err error) error {
	kind := aiservice.Classify(err)

	span.RecordError(err)
	span.SetStatus(codes.Error, string(kind))

	ctxzap.Extract(ctx).Error("AI service call failed",
		zap.String("operation", string(op)),
		zap.String("failure_kind", string(kind)),
		zap.Duration("latency", latency),
		zap.Error(err),
	)

	s.usage.Emit(usage.Event{
		RequestID:   logger.RequestID(ctx),
		UserID:      userID,
		ProjectID:   projectID,
		Operation:   op,
		FailureKind: string(kind),
		Latency:     latency,
		RecordedAt:  s.now().UTC(),
	})

	return &Error{Op: op, Kind: kind, Cause: err}
}
