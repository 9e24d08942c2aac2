package proposals

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Status of a proposal as seen by the gateway
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

var (
	// ErrAlreadyResolved is returned when a proposal already carries the
	// opposite decision.
	ErrAlreadyResolved = errors.New("proposal already resolved")
	ErrNotFound        = errors.New("proposal decision not found")
)

// Decision records who accepted or rejected a proposal
type Decision struct {
	ProposalID    string         `json:"proposal_id"`
	Status        Status         `json:"decision"`
	DecidedBy     string         `json:"decided_by"`
	Modifications map[string]any `json:"modifications,omitempty"`
	Feedback      *string        `json:"feedback,omitempty"`
	DecidedAt     time.Time      `json:"decided_at"`
}

// Store persists proposal decisions. Proposals the store has never seen are
// treated as pending: their existence is owned by the AI service.
type Store interface {
	Decide(ctx context.Context, d Decision) (*Decision, error)
	Get(ctx context.Context, proposalID string) (*Decision, error)
}

var validTransitions = map[Status][]Status{
	StatusPending:  {StatusAccepted, StatusRejected},
	StatusAccepted: {}, // terminal
	StatusRejected: {}, // terminal
}

// validateTransition checks a move from current to next. Repeating the
// stored decision is reported as idempotent rather than as an error.
func validateTransition(current, next Status) (idempotent bool, err error) {
	allowedNext, exists := validTransitions[current]
	if !exists {
		return false, fmt.Errorf("invalid current status: %s", current)
	}
	if _, known := validTransitions[next]; !known || next == StatusPending {
		return false, fmt.Errorf("invalid decision: %s", next)
	}

	if current == next {
		return true, nil
	}

	for _, allowed := range allowedNext {
		if allowed == next {
			return false, nil
		}
	}

	return false, fmt.Errorf("%w: cannot move from %s to %s", ErrAlreadyResolved, current, next)
}
