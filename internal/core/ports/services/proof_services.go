package services

import (
	"context"

	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/good4it/good4it_backend/internal/dto"
	"github.com/jackc/pgx/v5"
)

// ProofSvcFacade validates and records proof-of-payment references. The file
// bytes themselves are stored externally; the core keeps the reference and
// rejects a lifecycle operation when its proof is missing or invalid.
type ProofSvcFacade interface {
	// RecordProofInTx validates the metadata (mime whitelist, size cap) and
	// persists the record inside the caller's database transaction.
	RecordProofInTx(ctx context.Context, tx pgx.Tx, transactionID string, uploaderID string, proofType domain.ProofType, meta dto.ProofMetadata) (*domain.TransactionProof, error)

	// ListProofsByTransactionID retrieves the proofs attached to a transaction.
	ListProofsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionProof, error)
}
