package services

import (
	"context"

	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/good4it/good4it_backend/internal/dto"
)

// ReputationLedgerSvc is the external-ledger port: the core pushes signed
// deltas through it and every call appends an immutable history entry. Scores
// are clamped to [domain.MinScore, domain.MaxScore].
type ReputationLedgerSvc interface {
	// ApplyScoreDelta adjusts a user's score and returns previous and new
	// values.
	ApplyScoreDelta(ctx context.Context, userID string, event domain.ScoreEvent, delta int, description string, metadata map[string]string, relatedTransactionID *string) (previous int, updated int, err error)

	// RecordLifecycleEvent applies the canonical delta for a lifecycle event.
	// Best-effort from the caller's perspective: failures are logged by the
	// caller and never veto the state transition that produced the event.
	RecordLifecycleEvent(ctx context.Context, userID string, event domain.ScoreEvent, relatedTransactionID *string) error
}

// ScoreReaderSvc defines read operations for reputation scores.
type ScoreReaderSvc interface {
	// GetScore retrieves a user's current score, defaulting new users.
	GetScore(ctx context.Context, userID string) (*domain.UserScore, error)

	// ListScoreHistory retrieves a page of the user's score ledger.
	ListScoreHistory(ctx context.Context, userID string, params dto.ListScoreHistoryParams) (*dto.ListScoreHistoryResponse, error)
}

// ScoreSvcFacade combines the ledger port with the read surface.
type ScoreSvcFacade interface {
	ReputationLedgerSvc
	ScoreReaderSvc
}
