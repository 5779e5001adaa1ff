package repositories

import (
	"context"

	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// MoneyTransactionReader defines read operations for money transaction data.
type MoneyTransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.MoneyTransaction, error)

	// FindTransactionByRequestID retrieves the transaction spawned by a
	// request, if any.
	FindTransactionByRequestID(ctx context.Context, requestID string) (*domain.MoneyTransaction, error)

	// ListTransactionsByUser retrieves a paginated list of transactions where
	// the user holds the given role (requestor or lender), newest first.
	ListTransactionsByUser(ctx context.Context, userID string, role domain.PartyRole, limit int, nextToken *string) ([]domain.MoneyTransaction, *string, error)
}

// MoneyTransactionWriter defines write operations for money transaction data.
// All transitions run inside a database transaction; the row lock plus the
// version token serialize concurrent transitions per transaction id.
type MoneyTransactionWriter interface {
	// SaveTransactionInTx persists a newly funded transaction inside tx.
	SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.MoneyTransaction) error

	// FindTransactionByIDForUpdate retrieves a transaction inside tx with a
	// row lock.
	FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.MoneyTransaction, error)

	// UpdateTransactionInTx persists a transitioned transaction inside tx.
	// The update is conditional on the stored version matching
	// expectedVersion; a mismatch returns apperrors.ErrConflict.
	UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.MoneyTransaction, expectedVersion int64) error
}

// MoneyTransactionRepositoryFacade combines all transaction repository interfaces.
type MoneyTransactionRepositoryFacade interface {
	MoneyTransactionReader
	MoneyTransactionWriter
	TransactionManager
}
