package repositories

import (
	"context"

	"github.com/good4it/good4it_backend/internal/core/domain"
)

// DisputeReader defines read operations for dispute data.
type DisputeReader interface {
	// FindDisputeByID retrieves a specific dispute by its identifier.
	FindDisputeByID(ctx context.Context, disputeID string) (*domain.Dispute, error)

	// ListDisputesByTransactionID retrieves all disputes raised against a
	// transaction, newest first.
	ListDisputesByTransactionID(ctx context.Context, transactionID string) ([]domain.Dispute, error)
}

// DisputeWriter defines write operations for dispute data.
type DisputeWriter interface {
	// SaveDispute persists a new dispute.
	SaveDispute(ctx context.Context, dispute domain.Dispute) error

	// ResolveDispute records the outcome, conditional on the dispute still
	// being open (apperrors.ErrConflict otherwise).
	ResolveDispute(ctx context.Context, dispute domain.Dispute) error
}

// DisputeRepositoryFacade combines all dispute repository interfaces.
type DisputeRepositoryFacade interface {
	DisputeReader
	DisputeWriter
}
