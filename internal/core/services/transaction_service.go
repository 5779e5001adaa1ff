package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/good4it/good4it_backend/internal/apperrors"
	"github.com/good4it/good4it_backend/internal/core/domain"
	portsrepo "github.com/good4it/good4it_backend/internal/core/ports/repositories"
	portssvc "github.com/good4it/good4it_backend/internal/core/ports/services"
	"github.com/good4it/good4it_backend/internal/dto"
	"github.com/good4it/good4it_backend/internal/middleware"
	"github.com/good4it/good4it_backend/internal/utils/period"
)

// Thresholds for classifying a full repayment against the moment the borrower
// confirmed receipt.
const (
	earlyRepaymentWindow = 24 * time.Hour
	lateRepaymentAfter   = 7 * 24 * time.Hour
)

// transactionService implements the debt state machine. Every transition runs
// inside a database transaction with a row lock, and the version token turns
// lost updates into conflicts.
type transactionService struct {
	transactionRepo portsrepo.MoneyTransactionRepositoryFacade
	proofSvc        portssvc.ProofSvcFacade
	ledger          portssvc.ReputationLedgerSvc
	notifier        portssvc.NotifierSvc
}

// NewTransactionService creates a new money-transaction service.
func NewTransactionService(
	transactionRepo portsrepo.MoneyTransactionRepositoryFacade,
	proofSvc portssvc.ProofSvcFacade,
	ledger portssvc.ReputationLedgerSvc,
	notifier portssvc.NotifierSvc,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		transactionRepo: transactionRepo,
		proofSvc:        proofSvc,
		ledger:          ledger,
		notifier:        notifier,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// GetTransactionByID retrieves a transaction visible to the given user.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string, requestingUserID string) (*domain.MoneyTransaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find money transaction: %w", err)
	}
	if txn.RoleOf(requestingUserID) == "" {
		return nil, fmt.Errorf("%w: transaction belongs to other users", apperrors.ErrForbidden)
	}
	return txn, nil
}

// ListTransactions retrieves a paginated list of the user's transactions in
// the given role, defaulting to debts the user owes.
func (s *transactionService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	role := domain.RoleRequestor
	if params.Role == string(domain.RoleLender) {
		role = domain.RoleLender
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	txns, nextToken, err := s.transactionRepo.ListTransactionsByUser(ctx, userID, role, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list money transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToMoneyTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// PaymentDue answers whether a payment is required from the borrower for the
// period containing the given instant.
func (s *transactionService) PaymentDue(ctx context.Context, transactionID string, requestingUserID string, at time.Time) (*dto.PaymentDueResponse, error) {
	txn, err := s.GetTransactionByID(ctx, transactionID, requestingUserID)
	if err != nil {
		return nil, err
	}

	required, reason, periodKey, err := PaymentDueStatus(txn, at)
	if err != nil {
		return nil, err
	}

	resp := &dto.PaymentDueResponse{
		TransactionID: txn.TransactionID,
		PeriodKey:     periodKey,
		Required:      required,
		Reason:        reason,
	}

	// When the current period is covered but the debt is still open, point the
	// borrower at the start of the next period.
	if !required && reason != DueReasonAlreadyRepaid {
		freq := domain.FrequencyMonthly
		if txn.EMIDetails != nil {
			freq = txn.EMIDetails.Frequency
		}
		nextStart, err := period.NextStart(freq, at)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		resp.NextDueAt = &nextStart
	}

	return resp, nil
}

// ListProofs retrieves the proof records attached to a transaction.
func (s *transactionService) ListProofs(ctx context.Context, transactionID string, requestingUserID string) ([]domain.TransactionProof, error) {
	if _, err := s.GetTransactionByID(ctx, transactionID, requestingUserID); err != nil {
		return nil, err
	}
	return s.proofSvc.ListProofsByTransactionID(ctx, transactionID)
}

// ConfirmReceipt moves MONEY_SENT to MONEY_RECEIVED. Requestor only.
func (s *transactionService) ConfirmReceipt(ctx context.Context, transactionID string, actingUserID string) (*domain.MoneyTransaction, error) {
	txn, err := s.transition(ctx, transactionID, nil, func(txn *domain.MoneyTransaction, now time.Time) error {
		if txn.RoleOf(actingUserID) != domain.RoleRequestor {
			return fmt.Errorf("%w: only the borrower can confirm receipt", apperrors.ErrForbidden)
		}
		if txn.Status != domain.TxnMoneySent {
			return fmt.Errorf("%w: receipt can only be confirmed from MONEY_SENT, current status is %s", apperrors.ErrConflict, txn.Status)
		}
		txn.Status = domain.TxnMoneyReceived
		txn.MoneyReceivedAt = &now
		return nil
	}, actingUserID)
	if err != nil {
		return nil, err
	}

	s.notifyQuietly(ctx, txn.LenderID, domain.NotifyMoneyReceived, "Money received",
		fmt.Sprintf("Your friend confirmed receiving %s", txn.Amount.String()), &txn.Amount, &txn.TransactionID)
	return txn, nil
}

// SubmitRepayment moves MONEY_RECEIVED (or an unconfirmed REPAYMENT_SENT) to
// REPAYMENT_SENT. A resubmission overwrites the pending amount rather than
// stacking on it. Requestor only, proof required.
func (s *transactionService) SubmitRepayment(ctx context.Context, transactionID string, actingUserID string, req dto.SubmitRepaymentRequest) (*domain.MoneyTransaction, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: repayment amount must be positive", apperrors.ErrValidation)
	}

	txn, err := s.transition(ctx, transactionID, &req.Proof, func(txn *domain.MoneyTransaction, now time.Time) error {
		if txn.RoleOf(actingUserID) != domain.RoleRequestor {
			return fmt.Errorf("%w: only the borrower can submit a repayment", apperrors.ErrForbidden)
		}
		if txn.Status != domain.TxnMoneyReceived && txn.Status != domain.TxnRepaymentSent {
			return fmt.Errorf("%w: repayment can only be submitted from MONEY_RECEIVED or REPAYMENT_SENT, current status is %s", apperrors.ErrConflict, txn.Status)
		}
		txn.Status = domain.TxnRepaymentSent
		txn.PendingRepaymentAmount = req.Amount
		if txn.RepaymentSentAt == nil {
			txn.RepaymentSentAt = &now
		}
		return nil
	}, actingUserID)
	if err != nil {
		return nil, err
	}

	s.notifyQuietly(ctx, txn.LenderID, domain.NotifyRepaymentSent, "Repayment submitted",
		fmt.Sprintf("Your friend submitted a repayment of %s", req.Amount.String()), &req.Amount, &txn.TransactionID)
	return txn, nil
}

// ConfirmRepayment folds the pending amount into the confirmed accumulator:
// REPAID when it covers the principal, back to MONEY_RECEIVED otherwise.
// Lender only.
func (s *transactionService) ConfirmRepayment(ctx context.Context, transactionID string, actingUserID string) (*domain.MoneyTransaction, error) {
	txn, err := s.transition(ctx, transactionID, nil, func(txn *domain.MoneyTransaction, now time.Time) error {
		if txn.RoleOf(actingUserID) != domain.RoleLender {
			return fmt.Errorf("%w: only the lender can confirm a repayment", apperrors.ErrForbidden)
		}
		if txn.Status != domain.TxnRepaymentSent {
			return fmt.Errorf("%w: repayment can only be confirmed from REPAYMENT_SENT, current status is %s", apperrors.ErrConflict, txn.Status)
		}

		txn.RepaymentAmount = txn.RepaymentAmount.Add(txn.PendingRepaymentAmount)
		txn.PendingRepaymentAmount = decimal.Zero
		if txn.RepaymentReceivedAt == nil || now.After(*txn.RepaymentReceivedAt) {
			txn.RepaymentReceivedAt = &now
		}

		if txn.RepaymentAmount.GreaterThanOrEqual(txn.Amount) {
			txn.Status = domain.TxnRepaid
		} else {
			txn.Status = domain.TxnMoneyReceived
		}
		return nil
	}, actingUserID)
	if err != nil {
		return nil, err
	}

	s.recordScoreQuietly(ctx, txn.RequestorID, s.repaymentScoreEvent(txn, time.Now().UTC()), &txn.TransactionID)
	s.notifyQuietly(ctx, txn.RequestorID, domain.NotifyRepaymentConfirmed, "Repayment confirmed",
		fmt.Sprintf("Your repayment was confirmed, %s remaining", txn.RemainingBalance().String()), &txn.RepaymentAmount, &txn.TransactionID)
	return txn, nil
}

// RejectRepayment moves REPAYMENT_SENT to REPAYMENT_REJECTED. Lender only.
// The state is terminal here; a dispute is the documented way out.
func (s *transactionService) RejectRepayment(ctx context.Context, transactionID string, actingUserID string, req dto.RejectRepaymentRequest) (*domain.MoneyTransaction, error) {
	if req.Reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}

	txn, err := s.transition(ctx, transactionID, nil, func(txn *domain.MoneyTransaction, now time.Time) error {
		if txn.RoleOf(actingUserID) != domain.RoleLender {
			return fmt.Errorf("%w: only the lender can reject a repayment", apperrors.ErrForbidden)
		}
		if txn.Status != domain.TxnRepaymentSent {
			return fmt.Errorf("%w: repayment can only be rejected from REPAYMENT_SENT, current status is %s", apperrors.ErrConflict, txn.Status)
		}
		txn.Status = domain.TxnRepaymentRejected
		txn.RejectionReason = &req.Reason
		return nil
	}, actingUserID)
	if err != nil {
		return nil, err
	}

	s.recordScoreQuietly(ctx, txn.RequestorID, domain.ScoreEventRepaymentRejected, &txn.TransactionID)
	s.notifyQuietly(ctx, txn.RequestorID, domain.NotifyRepaymentRejected, "Repayment rejected",
		req.Reason, nil, &txn.TransactionID)
	return txn, nil
}

// Forgive writes off the remaining balance: MONEY_RECEIVED to FORGIVEN.
// Lender only.
func (s *transactionService) Forgive(ctx context.Context, transactionID string, actingUserID string) (*domain.MoneyTransaction, error) {
	txn, err := s.transition(ctx, transactionID, nil, func(txn *domain.MoneyTransaction, now time.Time) error {
		if txn.RoleOf(actingUserID) != domain.RoleLender {
			return fmt.Errorf("%w: only the lender can forgive a debt", apperrors.ErrForbidden)
		}
		if txn.Status != domain.TxnMoneyReceived {
			return fmt.Errorf("%w: a debt can only be forgiven from MONEY_RECEIVED, current status is %s", apperrors.ErrConflict, txn.Status)
		}
		forgiven := txn.RemainingBalance()
		txn.Status = domain.TxnForgiven
		txn.ForgivenAmount = &forgiven
		txn.ForgivenAt = &now
		return nil
	}, actingUserID)
	if err != nil {
		return nil, err
	}

	s.recordScoreQuietly(ctx, txn.LenderID, domain.ScoreEventForgivenessGiven, &txn.TransactionID)
	s.recordScoreQuietly(ctx, txn.RequestorID, domain.ScoreEventDebtForgiven, &txn.TransactionID)
	s.notifyQuietly(ctx, txn.RequestorID, domain.NotifyDebtForgiven, "Debt forgiven",
		fmt.Sprintf("Your friend forgave the remaining %s", txn.ForgivenAmount.String()), txn.ForgivenAmount, &txn.TransactionID)
	return txn, nil
}

// transition runs one state-machine step under a row lock and a version
// check. mutate sees the locked aggregate; a non-nil proof is recorded as a
// repayment-sent proof in the same database transaction.
func (s *transactionService) transition(ctx context.Context, transactionID string, proof *dto.ProofMetadata, mutate func(txn *domain.MoneyTransaction, now time.Time) error, actingUserID string) (*domain.MoneyTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.transactionRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.transactionRepo.Rollback(ctx, tx)

	txn, err := s.transactionRepo.FindTransactionByIDForUpdate(ctx, tx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find money transaction: %w", err)
	}
	expectedVersion := txn.Version

	now := time.Now().UTC()
	if err := mutate(txn, now); err != nil {
		return nil, err
	}

	txn.Version++
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actingUserID

	if err := s.transactionRepo.UpdateTransactionInTx(ctx, tx, *txn, expectedVersion); err != nil {
		return nil, fmt.Errorf("failed to update money transaction: %w", err)
	}
	if proof != nil {
		if _, err := s.proofSvc.RecordProofInTx(ctx, tx, txn.TransactionID, actingUserID, domain.ProofRepaymentSent, *proof); err != nil {
			return nil, err
		}
	}
	if err := s.transactionRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Transaction transitioned",
		slog.String("transaction_id", txn.TransactionID), slog.String("status", string(txn.Status)), slog.Int64("version", txn.Version))
	return txn, nil
}

// repaymentScoreEvent classifies a confirmed repayment for the ledger.
func (s *transactionService) repaymentScoreEvent(txn *domain.MoneyTransaction, at time.Time) domain.ScoreEvent {
	if txn.Status != domain.TxnRepaid {
		return domain.ScoreEventPartialRepayment
	}
	if txn.MoneyReceivedAt != nil {
		elapsed := at.Sub(*txn.MoneyReceivedAt)
		if elapsed < earlyRepaymentWindow {
			return domain.ScoreEventRepaidEarly
		}
		if elapsed > lateRepaymentAfter {
			return domain.ScoreEventRepaidLate
		}
	}
	return domain.ScoreEventRepaidOnTime
}

func (s *transactionService) recordScoreQuietly(ctx context.Context, userID string, event domain.ScoreEvent, transactionID *string) {
	if err := s.ledger.RecordLifecycleEvent(ctx, userID, event, transactionID); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to record score event",
			slog.String("user_id", userID), slog.String("event", string(event)), slog.String("error", err.Error()))
	}
}

func (s *transactionService) notifyQuietly(ctx context.Context, recipientID string, event domain.NotificationEvent, title, body string, amount *decimal.Decimal, transactionID *string) {
	if err := s.notifier.Notify(ctx, recipientID, event, title, body, amount, transactionID, nil); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to dispatch notification",
			slog.String("recipient_id", recipientID), slog.String("event", string(event)), slog.String("error", err.Error()))
	}
}
