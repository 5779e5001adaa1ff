package pgsql

import (
	"context"
	"fmt"

	"github.com/good4it/good4it_backend/internal/core/domain"
	portsrepo "github.com/good4it/good4it_backend/internal/core/ports/repositories"
	"github.com/good4it/good4it_backend/internal/models"
	"github.com/good4it/good4it_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const proofColumns = `proof_id, transaction_id, uploaded_by_id, proof_type, storage_key, mime_type, size_bytes,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxProofRepository struct {
	BaseRepository
}

func newPgxProofRepository(db *pgxpool.Pool) portsrepo.ProofRepositoryFacade {
	return &PgxProofRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.ProofRepositoryFacade = (*PgxProofRepository)(nil)

func (r *PgxProofRepository) SaveProofInTx(ctx context.Context, tx pgx.Tx, proof domain.TransactionProof) error {
	m := mapping.ToModelTransactionProof(proof)
	query := `
		INSERT INTO transaction_proofs (` + proofColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := tx.Exec(ctx, query,
		m.ProofID, m.TransactionID, m.UploadedByID, m.ProofType, m.StorageKey, m.MimeType, m.SizeBytes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction proof: %w", err)
	}
	return nil
}

func (r *PgxProofRepository) ListProofsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionProof, error) {
	query := `SELECT ` + proofColumns + ` FROM transaction_proofs WHERE transaction_id = $1 ORDER BY created_at ASC;`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction proofs: %w", err)
	}
	defer rows.Close()

	ms := []models.TransactionProof{}
	for rows.Next() {
		var m models.TransactionProof
		err := rows.Scan(
			&m.ProofID, &m.TransactionID, &m.UploadedByID, &m.ProofType, &m.StorageKey, &m.MimeType, &m.SizeBytes,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction proof row: %w", err)
		}
		ms = append(ms, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating transaction proof rows: %w", rows.Err())
	}

	return mapping.ToDomainTransactionProofSlice(ms), nil
}
