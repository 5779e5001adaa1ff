package repositories

import (
	"context"

	"github.com/good4it/good4it_backend/internal/core/domain"
)

// ScoreReader defines read operations for the reputation ledger.
type ScoreReader interface {
	// GetUserScore retrieves the current score row for a user, or
	// apperrors.ErrNotFound when the user has no ledger entry yet.
	GetUserScore(ctx context.Context, userID string) (*domain.UserScore, error)

	// ListScoreHistory retrieves a paginated slice of the append-only history,
	// newest first.
	ListScoreHistory(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.ScoreHistory, *string, error)
}

// ScoreWriter defines write operations for the reputation ledger.
type ScoreWriter interface {
	// ApplyDelta atomically adjusts the user's clamped score and appends the
	// history entry. A missing score row is initialised at the default score
	// first. Returns the previous and new scores.
	ApplyDelta(ctx context.Context, entry domain.ScoreHistory) (previous int, updated int, err error)
}

// ScoreRepositoryFacade combines all reputation-ledger repository interfaces.
type ScoreRepositoryFacade interface {
	ScoreReader
	ScoreWriter
}
