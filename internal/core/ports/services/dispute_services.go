package services

import (
	"context"

	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/good4it/good4it_backend/internal/dto"
)

// DisputeSvcFacade handles dispute raising and resolution. Resolution drives
// reputation deltas only; it never mutates the transaction state machine.
type DisputeSvcFacade interface {
	// RaiseDispute opens a dispute on a transaction by one of its parties.
	RaiseDispute(ctx context.Context, req dto.RaiseDisputeRequest, actingUserID string) (*domain.Dispute, error)

	// ResolveDispute records the outcome and applies the score deltas.
	ResolveDispute(ctx context.Context, disputeID string, req dto.ResolveDisputeRequest) (*domain.Dispute, error)

	// ListDisputesByTransaction retrieves disputes for a transaction,
	// restricted to its parties.
	ListDisputesByTransaction(ctx context.Context, transactionID string, requestingUserID string) ([]domain.Dispute, error)
}
