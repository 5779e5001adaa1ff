package services

import (
	"context"
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

// disputeService handles dispute raising and resolution. Resolution drives
// reputation deltas only; the transaction state machine is never touched.
type disputeService struct {
	disputeRepo     portsrepo.DisputeRepositoryFacade
	transactionRepo portsrepo.MoneyTransactionRepositoryFacade
	ledger          portssvc.ReputationLedgerSvc
	notifier        portssvc.NotifierSvc
}

// NewDisputeService creates a new dispute service.
func NewDisputeService(
	disputeRepo portsrepo.DisputeRepositoryFacade,
	transactionRepo portsrepo.MoneyTransactionRepositoryFacade,
	ledger portssvc.ReputationLedgerSvc,
	notifier portssvc.NotifierSvc,
) portssvc.DisputeSvcFacade {
	return &disputeService{
		disputeRepo:     disputeRepo,
		transactionRepo: transactionRepo,
		ledger:          ledger,
		notifier:        notifier,
	}
}

var _ portssvc.DisputeSvcFacade = (*disputeService)(nil)

// RaiseDispute opens a dispute on a transaction by one of its parties.
func (s *disputeService) RaiseDispute(ctx context.Context, req dto.RaiseDisputeRequest, actingUserID string) (*domain.Dispute, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.transactionRepo.FindTransactionByID(ctx, req.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find money transaction: %w", err)
	}
	if txn.RoleOf(actingUserID) == "" {
		return nil, fmt.Errorf("%w: only a party of the transaction can raise a dispute", apperrors.ErrForbidden)
	}

	now := time.Now().UTC()
	dispute := domain.Dispute{
		DisputeID:     uuid.NewString(),
		TransactionID: txn.TransactionID,
		RaisedByID:    actingUserID,
		Reason:        req.Reason,
		Status:        domain.DisputeOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actingUserID,
		},
	}

	if err := s.disputeRepo.SaveDispute(ctx, dispute); err != nil {
		logger.Error("Failed to save dispute", slog.String("transaction_id", txn.TransactionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save dispute: %w", err)
	}

	otherParty := txn.LenderID
	if actingUserID == txn.LenderID {
		otherParty = txn.RequestorID
	}
	logger.Info("Dispute raised", slog.String("dispute_id", dispute.DisputeID), slog.String("transaction_id", txn.TransactionID))
	if err := s.notifier.Notify(ctx, otherParty, domain.NotifyDisputeRaised, "Dispute raised", req.Reason, nil, &txn.TransactionID, nil); err != nil {
		logger.Warn("Failed to dispatch notification", slog.String("recipient_id", otherParty), slog.String("error", err.Error()))
	}

	return &dispute, nil
}

// ResolveDispute records the outcome and applies the score deltas to both
// parties. NO_FAULT moves nobody's score.
func (s *disputeService) ResolveDispute(ctx context.Context, disputeID string, req dto.ResolveDisputeRequest) (*domain.Dispute, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	dispute, err := s.disputeRepo.FindDisputeByID(ctx, disputeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find dispute: %w", err)
	}
	if dispute.Status != domain.DisputeOpen {
		return nil, fmt.Errorf("%w: dispute is already resolved", apperrors.ErrConflict)
	}

	txn, err := s.transactionRepo.FindTransactionByID(ctx, dispute.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find money transaction: %w", err)
	}

	outcome := domain.DisputeOutcome(req.Outcome)
	now := time.Now().UTC()
	dispute.Status = domain.DisputeResolved
	dispute.Outcome = &outcome
	dispute.ResolvedAt = &now
	dispute.LastUpdatedAt = now

	if err := s.disputeRepo.ResolveDispute(ctx, *dispute); err != nil {
		return nil, fmt.Errorf("failed to resolve dispute: %w", err)
	}

	disputer := dispute.RaisedByID
	otherParty := txn.LenderID
	if disputer == txn.LenderID {
		otherParty = txn.RequestorID
	}

	switch outcome {
	case domain.OutcomeInFavorOfDisputer:
		s.recordScoreQuietly(ctx, disputer, domain.ScoreEventDisputeWon, &txn.TransactionID)
		s.recordScoreQuietly(ctx, otherParty, domain.ScoreEventDisputeLost, &txn.TransactionID)
	case domain.OutcomeInFavorOfOtherParty:
		s.recordScoreQuietly(ctx, otherParty, domain.ScoreEventDisputeWon, &txn.TransactionID)
		s.recordScoreQuietly(ctx, disputer, domain.ScoreEventDisputeLost, &txn.TransactionID)
	case domain.OutcomeNoFault:
		// no score movement
	default:
		return nil, fmt.Errorf("%w: unknown dispute outcome %q", apperrors.ErrValidation, req.Outcome)
	}

	logger.Info("Dispute resolved", slog.String("dispute_id", dispute.DisputeID), slog.String("outcome", string(outcome)))
	for _, recipient := range []string{disputer, otherParty} {
		if err := s.notifier.Notify(ctx, recipient, domain.NotifyDisputeResolved, "Dispute resolved", string(outcome), nil, &txn.TransactionID, nil); err != nil {
			logger.Warn("Failed to dispatch notification", slog.String("recipient_id", recipient), slog.String("error", err.Error()))
		}
	}

	return dispute, nil
}

// ListDisputesByTransaction retrieves disputes for a transaction, restricted
// to its parties.
func (s *disputeService) ListDisputesByTransaction(ctx context.Context, transactionID string, requestingUserID string) ([]domain.Dispute, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find money transaction: %w", err)
	}
	if txn.RoleOf(requestingUserID) == "" {
		return nil, fmt.Errorf("%w: transaction belongs to other users", apperrors.ErrForbidden)
	}

	disputes, err := s.disputeRepo.ListDisputesByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list disputes: %w", err)
	}
	return disputes, nil
}

func (s *disputeService) recordScoreQuietly(ctx context.Context, userID string, event domain.ScoreEvent, transactionID *string) {
	if err := s.ledger.RecordLifecycleEvent(ctx, userID, event, transactionID); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to record score event",
			slog.String("user_id", userID), slog.String("event", string(event)), slog.String("error", err.Error()))
	}
}
