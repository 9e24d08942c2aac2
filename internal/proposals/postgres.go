package proposals

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("proposal-store")

// PostgresStore keeps decisions in the proposal_decisions table
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Decide(ctx context.Context, d Decision) (*Decision, error) {
	ctx, span := tracer.Start(ctx, "proposals.decide")
	defer span.End()

	span.SetAttributes(
		attribute.String("proposal.id", d.ProposalID),
		attribute.String("proposal.decision", string(d.Status)),
	)

	if _, err := validateTransition(StatusPending, d.Status); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// First decision wins the insert; everyone else falls through to the lock
	inserted, err := insertDecision(ctx, tx, d)
	if err != nil {
		return nil, err
	}
	if inserted != nil {
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return inserted, nil
	}

	existing, err := lockDecisionForUpdate(ctx, tx, d.ProposalID)
	if err != nil {
		return nil, err
	}

	if _, err := validateTransition(existing.Status, d.Status); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return existing, nil
}

func (s *PostgresStore) Get(ctx context.Context, proposalID string) (*Decision, error) {
	ctx, span := tracer.Start(ctx, "proposals.get")
	defer span.End()

	d, err := scanDecision(s.pool.QueryRow(ctx, `
		SELECT proposal_id, decision, decided_by, modifications, feedback, decided_at
		FROM proposal_decisions
		WHERE proposal_id = $1
	`, proposalID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal decision: %w", err)
	}
	return d, nil
}

// Ping reports whether the database is reachable
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func insertDecision(ctx context.Context, tx pgx.Tx, d Decision) (*Decision, error) {
	inserted, err := scanDecision(tx.QueryRow(ctx, `
		INSERT INTO proposal_decisions (proposal_id, decision, decided_by, modifications, feedback, decided_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (proposal_id) DO NOTHING
		RETURNING proposal_id, decision, decided_by, modifications, feedback, decided_at
	`, d.ProposalID, string(d.Status), d.DecidedBy, d.Modifications, d.Feedback))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert proposal decision: %w", err)
	}
	return inserted, nil
}

// lockDecisionForUpdate locks the stored decision so concurrent deciders
// serialize on it.
func lockDecisionForUpdate(ctx context.Context, tx pgx.Tx, proposalID string) (*Decision, error) {
	d, err := scanDecision(tx.QueryRow(ctx, `
		SELECT proposal_id, decision, decided_by, modifications, feedback, decided_at
		FROM proposal_decisions
		WHERE proposal_id = $1
		FOR UPDATE
	`, proposalID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock proposal decision: %w", err)
	}
	return d, nil
}

func scanDecision(row pgx.Row) (*Decision, error) {
	var (
		d      Decision
		status string
	)
	if err := row.Scan(&d.ProposalID, &status, &d.DecidedBy, &d.Modifications, &d.Feedback, &d.DecidedAt); err != nil {
		return nil, err
	}
	d.Status = Status(status)
	d.DecidedAt = d.DecidedAt.UTC()
	return &d, nil
}
