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
	"github.com/good4it/good4it_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const moneyRequestColumns = `request_id, requestor_id, lender_id, amount, description, payment_type,
	emi_installments, emi_installment_amount, emi_frequency,
	status, rejection_reason, rejected_at,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxMoneyRequestRepository struct {
	BaseRepository
}

func newPgxMoneyRequestRepository(db *pgxpool.Pool) portsrepo.MoneyRequestRepositoryFacade {
	return &PgxMoneyRequestRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.MoneyRequestRepositoryFacade = (*PgxMoneyRequestRepository)(nil)

func scanMoneyRequest(row pgx.Row) (*models.MoneyRequest, error) {
	var m models.MoneyRequest
	err := row.Scan(
		&m.RequestID, &m.RequestorID, &m.LenderID, &m.Amount, &m.Description, &m.PaymentType,
		&m.EMIInstallments, &m.EMIInstallmentAmount, &m.EMIFrequency,
		&m.Status, &m.RejectionReason, &m.RejectedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxMoneyRequestRepository) SaveRequest(ctx context.Context, request domain.MoneyRequest) error {
	m := mapping.ToModelMoneyRequest(request)
	query := `
		INSERT INTO money_requests (` + moneyRequestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RequestID, m.RequestorID, m.LenderID, m.Amount, m.Description, m.PaymentType,
		m.EMIInstallments, m.EMIInstallmentAmount, m.EMIFrequency,
		m.Status, m.RejectionReason, m.RejectedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("money request %s: %w", m.RequestID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save money request: %w", err)
	}
	return nil
}

func (r *PgxMoneyRequestRepository) FindRequestByID(ctx context.Context, requestID string) (*domain.MoneyRequest, error) {
	query := `SELECT ` + moneyRequestColumns + ` FROM money_requests WHERE request_id = $1;`
	m, err := scanMoneyRequest(r.Pool.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("money request %s: %w", requestID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find money request by ID %s: %w", requestID, err)
	}
	d := mapping.ToDomainMoneyRequest(*m)
	return &d, nil
}

func (r *PgxMoneyRequestRepository) FindRequestByIDForUpdate(ctx context.Context, tx pgx.Tx, requestID string) (*domain.MoneyRequest, error) {
	query := `SELECT ` + moneyRequestColumns + ` FROM money_requests WHERE request_id = $1 FOR UPDATE;`
	m, err := scanMoneyRequest(tx.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("money request %s: %w", requestID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock money request %s: %w", requestID, err)
	}
	d := mapping.ToDomainMoneyRequest(*m)
	return &d, nil
}

func (r *PgxMoneyRequestRepository) UpdateRequestInTx(ctx context.Context, tx pgx.Tx, request domain.MoneyRequest, expectedStatus domain.RequestStatus) error {
	m := mapping.ToModelMoneyRequest(request)
	query := `
		UPDATE money_requests
		SET status = $1, rejection_reason = $2, rejected_at = $3,
		    last_updated_at = $4, last_updated_by = $5
		WHERE request_id = $6 AND status = $7;
	`
	tag, err := tx.Exec(ctx, query,
		m.Status, m.RejectionReason, m.RejectedAt,
		m.LastUpdatedAt, m.LastUpdatedBy,
		m.RequestID, string(expectedStatus),
	)
	if err != nil {
		return fmt.Errorf("failed to update money request %s: %w", m.RequestID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("money request %s changed concurrently: %w", m.RequestID, apperrors.ErrConflict)
	}
	return nil
}

func (r *PgxMoneyRequestRepository) ListRequestsByUser(ctx context.Context, userID string, role domain.PartyRole, limit int, nextToken *string) ([]domain.MoneyRequest, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	roleColumn := "requestor_id"
	if role == domain.RoleLender {
		roleColumn = "lender_id"
	}

	args := []any{userID}
	query := `SELECT ` + moneyRequestColumns + ` FROM money_requests WHERE ` + roleColumn + ` = $1`

	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, request_id) < ($2, $3)`
		args = append(args, createdAt, id)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, request_id DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query money requests: %w", err)
	}
	defer rows.Close()

	ms := []models.MoneyRequest{}
	for rows.Next() {
		m, err := scanMoneyRequest(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan money request row: %w", err)
		}
		ms = append(ms, *m)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating money request rows: %w", rows.Err())
	}

	var token *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.RequestID)
		token = &t
	}

	return mapping.ToDomainMoneyRequestSlice(ms), token, nil
}
