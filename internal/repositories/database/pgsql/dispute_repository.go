package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/good4it/good4it_backend/internal/apperrors"
	"github.com/good4it/good4it_backend/internal/core/domain"
	portsrepo "github.com/good4it/good4it_backend/internal/core/ports/repositories"
	"github.com/good4it/good4it_backend/internal/models"
	"github.com/good4it/good4it_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const disputeColumns = `dispute_id, transaction_id, raised_by_id, reason, status, outcome, resolved_at,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxDisputeRepository struct {
	BaseRepository
}

func newPgxDisputeRepository(db *pgxpool.Pool) portsrepo.DisputeRepositoryFacade {
	return &PgxDisputeRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.DisputeRepositoryFacade = (*PgxDisputeRepository)(nil)

func scanDispute(row pgx.Row) (models.Dispute, error) {
	var m models.Dispute
	err := row.Scan(
		&m.DisputeID, &m.TransactionID, &m.RaisedByID, &m.Reason, &m.Status,
		&m.Outcome, &m.ResolvedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxDisputeRepository) SaveDispute(ctx context.Context, dispute domain.Dispute) error {
	m := mapping.ToModelDispute(dispute)
	query := `
		INSERT INTO disputes (` + disputeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.DisputeID, m.TransactionID, m.RaisedByID, m.Reason, m.Status,
		m.Outcome, m.ResolvedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save dispute: %w", err)
	}
	return nil
}

func (r *PgxDisputeRepository) FindDisputeByID(ctx context.Context, disputeID string) (*domain.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE dispute_id = $1;`
	m, err := scanDispute(r.Pool.QueryRow(ctx, query, disputeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("dispute %s: %w", disputeID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find dispute: %w", err)
	}
	d := mapping.ToDomainDispute(m)
	return &d, nil
}

func (r *PgxDisputeRepository) ListDisputesByTransactionID(ctx context.Context, transactionID string) ([]domain.Dispute, error) {
	query := `
		SELECT ` + disputeColumns + `
		FROM disputes
		WHERE transaction_id = $1
		ORDER BY created_at DESC, dispute_id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list disputes: %w", err)
	}
	defer rows.Close()

	var ms []models.Dispute
	for rows.Next() {
		m, err := scanDispute(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dispute: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate disputes: %w", err)
	}
	return mapping.ToDomainDisputeSlice(ms), nil
}

func (r *PgxDisputeRepository) ResolveDispute(ctx context.Context, dispute domain.Dispute) error {
	m := mapping.ToModelDispute(dispute)
	query := `
		UPDATE disputes
		SET status = $1, outcome = $2, resolved_at = $3, last_updated_at = $4, last_updated_by = $5
		WHERE dispute_id = $6 AND status = 'OPEN';
	`
	tag, err := r.Pool.Exec(ctx, query, m.Status, m.Outcome, m.ResolvedAt, m.LastUpdatedAt, m.LastUpdatedBy, m.DisputeID)
	if err != nil {
		return fmt.Errorf("failed to resolve dispute: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("dispute %s is not open: %w", dispute.DisputeID, apperrors.ErrConflict)
	}
	return nil
}
