package ai

import (
	"errors"
	"fmt"

	"github.com/helmhq/helm/ai-gateway/internal/aiservice"
)

// Messages shown to callers. The cause of a failure is never included.
const (
	MsgValidationFailed = "AI validation failed"
	MsgAnswerFailed     = "AI question answering failed"
)

var (
	ErrInvalidScope      = errors.New("validation_scope must be one of rules_only, selective, full")
	ErrMissingIdentity   = errors.New("caller identity is required")
	ErrMissingProposalID = errors.New("proposal id is required")
)

// Error is returned when the AI service could not produce a usable answer.
// Kind and Cause are for logs and metrics; callers only see PublicMessage.
type Error struct {
	Op    Operation
	Kind  aiservice.FailureKind
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ai %s failed (%s): %v", e.Op, e.Kind, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// PublicMessage is the opaque text for the failed operation
func (e *Error) PublicMessage() string {
	if e.Op == OpAnswerQuestion {
		return MsgAnswerFailed
	}
	return MsgValidationFailed
}
