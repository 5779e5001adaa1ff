package repositories

import (
	"context"

	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ProofReader defines read operations for transaction proof records.
type ProofReader interface {
	// ListProofsByTransactionID retrieves all proof records for a transaction,
	// oldest first.
	ListProofsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionProof, error)
}

// ProofWriter defines write operations for transaction proof records.
type ProofWriter interface {
	// SaveProofInTx persists a proof record inside tx, so a lifecycle
	// transition and its proof commit or roll back together.
	SaveProofInTx(ctx context.Context, tx pgx.Tx, proof domain.TransactionProof) error
}

// ProofRepositoryFacade combines all proof repository interfaces.
type ProofRepositoryFacade interface {
	ProofReader
	ProofWriter
}
