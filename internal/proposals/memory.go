package proposals

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MemoryStore keeps decisions in process memory. It backs development runs
// without a database and tests.
type MemoryStore struct {
	mu        sync.Mutex
	decisions map[string]Decision
	now       func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		decisions: make(map[string]Decision),
		now:       time.Now,
	}
}

func (s *MemoryStore) Decide(_ context.Context, d Decision) (*Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := StatusPending
	existing, found := s.decisions[d.ProposalID]
	if found {
		current = existing.Status
	}

	idempotent, err := validateTransition(current, d.Status)
	if err != nil {
		return nil, err
	}
	if idempotent {
		return copyDecision(existing), nil
	}

	d.DecidedAt = s.now().UTC()
	d.Modifications = maps.Clone(d.Modifications)
	s.decisions[d.ProposalID] = d
	return copyDecision(d), nil
}

func (s *MemoryStore) Get(_ context.Context, proposalID string) (*Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.decisions[proposalID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDecision(d), nil
}

func copyDecision(d Decision) *Decision {
	d.Modifications = maps.Clone(d.Modifications)
	return &d
}
