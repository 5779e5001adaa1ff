package services

import (
	"context"
	"time"

	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/good4it/good4it_backend/internal/dto"
)

// TransactionReaderSvc defines read operations for money transactions.
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a transaction visible to the given user.
	GetTransactionByID(ctx context.Context, transactionID string, requestingUserID string) (*domain.MoneyTransaction, error)

	// ListTransactions retrieves a paginated list of the user's transactions.
	ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// PaymentDue answers whether a payment is required from the borrower for
	// the period containing the given instant.
	PaymentDue(ctx context.Context, transactionID string, requestingUserID string, at time.Time) (*dto.PaymentDueResponse, error)

	// ListProofs retrieves the proof records attached to a transaction.
	ListProofs(ctx context.Context, transactionID string, requestingUserID string) ([]domain.TransactionProof, error)
}

// TransactionWriterSvc defines the transaction lifecycle transitions.
// Every transition is serialized per transaction id; re-invoking one whose
// precondition no longer holds fails with a conflict, never a silent no-op.
type TransactionWriterSvc interface {
	// ConfirmReceipt moves MONEY_SENT to MONEY_RECEIVED. Requestor only.
	ConfirmReceipt(ctx context.Context, transactionID string, actingUserID string) (*domain.MoneyTransaction, error)

	// SubmitRepayment moves MONEY_RECEIVED (or an unconfirmed REPAYMENT_SENT,
	// overwriting its pending amount) to REPAYMENT_SENT. Requestor only,
	// proof required.
	SubmitRepayment(ctx context.Context, transactionID string, actingUserID string, req dto.SubmitRepaymentRequest) (*domain.MoneyTransaction, error)

	// ConfirmRepayment folds the pending amount into the confirmed
	// accumulator: REPAID when it covers the principal, back to
	// MONEY_RECEIVED otherwise. Lender only.
	ConfirmRepayment(ctx context.Context, transactionID string, actingUserID string) (*domain.MoneyTransaction, error)

	// RejectRepayment moves REPAYMENT_SENT to REPAYMENT_REJECTED with a
	// reason. Lender only.
	RejectRepayment(ctx context.Context, transactionID string, actingUserID string, req dto.RejectRepaymentRequest) (*domain.MoneyTransaction, error)

	// Forgive writes off the remaining balance: MONEY_RECEIVED to FORGIVEN.
	// Lender only.
	Forgive(ctx context.Context, transactionID string, actingUserID string) (*domain.MoneyTransaction, error)
}

// TransactionSvcFacade combines all transaction service interfaces.
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
