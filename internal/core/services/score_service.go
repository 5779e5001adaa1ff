package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/good4it/good4it_backend/internal/apperrors"
	"github.com/good4it/good4it_backend/internal/core/domain"
	portsrepo "github.com/good4it/good4it_backend/internal/core/ports/repositories"
	portssvc "github.com/good4it/good4it_backend/internal/core/ports/services"
	"github.com/good4it/good4it_backend/internal/dto"
	"github.com/good4it/good4it_backend/internal/middleware"
)

// eventDeltas maps lifecycle events to their canonical signed score deltas.
// The score lives in [0, 100] with a default of 50, so deltas are small.
var eventDeltas = map[domain.ScoreEvent]int{
	domain.ScoreEventRepaidOnTime:      5,
	domain.ScoreEventRepaidEarly:       7,
	domain.ScoreEventRepaidLate:        2,
	domain.ScoreEventPartialRepayment:  1,
	domain.ScoreEventForgivenessGiven:  3,
	domain.ScoreEventDebtForgiven:      -2,
	domain.ScoreEventRepaymentRejected: -3,
	domain.ScoreEventTaskConfirmed:     4,
	domain.ScoreEventDisputeWon:        5,
	domain.ScoreEventDisputeLost:       -5,
}

// eventDescriptions give each ledger entry a human-readable line.
var eventDescriptions = map[domain.ScoreEvent]string{
	domain.ScoreEventRepaidOnTime:      "Loan repaid on time",
	domain.ScoreEventRepaidEarly:       "Loan repaid early",
	domain.ScoreEventRepaidLate:        "Loan repaid late",
	domain.ScoreEventPartialRepayment:  "Partial repayment confirmed",
	domain.ScoreEventForgivenessGiven:  "Forgave an outstanding debt",
	domain.ScoreEventDebtForgiven:      "Debt was forgiven by the lender",
	domain.ScoreEventRepaymentRejected: "Repayment was rejected",
	domain.ScoreEventTaskConfirmed:     "Task completed and confirmed",
	domain.ScoreEventDisputeWon:        "Dispute resolved in favor",
	domain.ScoreEventDisputeLost:       "Dispute resolved against",
}

// scoreService implements the reputation ledger: it translates lifecycle
// events into signed deltas and appends immutable history entries.
type scoreService struct {
	scoreRepo portsrepo.ScoreRepositoryFacade
}

// NewScoreService creates a new score service.
func NewScoreService(scoreRepo portsrepo.ScoreRepositoryFacade) portssvc.ScoreSvcFacade {
	return &scoreService{scoreRepo: scoreRepo}
}

var _ portssvc.ScoreSvcFacade = (*scoreService)(nil)

// ApplyScoreDelta adjusts the user's clamped score and appends the history
// entry. Implements portssvc.ReputationLedgerSvc.
func (s *scoreService) ApplyScoreDelta(ctx context.Context, userID string, event domain.ScoreEvent, delta int, description string, metadata map[string]string, relatedTransactionID *string) (int, int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry := domain.ScoreHistory{
		EntryID:       uuid.NewString(),
		UserID:        userID,
		Event:         event,
		Delta:         delta,
		Description:   description,
		Metadata:      metadata,
		TransactionID: relatedTransactionID,
		CreatedAt:     time.Now().UTC(),
	}

	previous, updated, err := s.scoreRepo.ApplyDelta(ctx, entry)
	if err != nil {
		logger.Error("Failed to apply score delta", slog.String("user_id", userID), slog.String("event", string(event)), slog.String("error", err.Error()))
		return 0, 0, fmt.Errorf("failed to apply score delta: %w", err)
	}

	logger.Info("Score delta applied", slog.String("user_id", userID), slog.String("event", string(event)), slog.Int("delta", delta), slog.Int("new_score", updated))
	return previous, updated, nil
}

// RecordLifecycleEvent applies the canonical delta for a lifecycle event.
func (s *scoreService) RecordLifecycleEvent(ctx context.Context, userID string, event domain.ScoreEvent, relatedTransactionID *string) error {
	delta, ok := eventDeltas[event]
	if !ok {
		return fmt.Errorf("%w: unknown score event %q", apperrors.ErrValidation, event)
	}
	_, _, err := s.ApplyScoreDelta(ctx, userID, event, delta, eventDescriptions[event], nil, relatedTransactionID)
	return err
}

// GetScore retrieves the user's current score. Users with no ledger activity
// yet report the default score.
func (s *scoreService) GetScore(ctx context.Context, userID string) (*domain.UserScore, error) {
	score, err := s.scoreRepo.GetUserScore(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.UserScore{UserID: userID, Score: domain.DefaultScore}, nil
		}
		return nil, fmt.Errorf("failed to get user score: %w", err)
	}
	return score, nil
}

// ListScoreHistory retrieves a page of the user's append-only score ledger.
func (s *scoreService) ListScoreHistory(ctx context.Context, userID string, params dto.ListScoreHistoryParams) (*dto.ListScoreHistoryResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.scoreRepo.ListScoreHistory(ctx, userID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list score history: %w", err)
	}

	return &dto.ListScoreHistoryResponse{
		Entries:   dto.ToScoreHistoryResponses(entries),
		NextToken: nextToken,
	}, nil
}
