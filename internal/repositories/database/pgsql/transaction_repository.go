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

const moneyTransactionColumns = `transaction_id, request_id, requestor_id, lender_id, amount,
	status, repayment_amount, pending_repayment_amount,
	money_sent_at, money_received_at, repayment_sent_at, repayment_received_at, forgiven_at,
	forgiven_amount, rejection_reason,
	emi_forgiveness, total_forgiven_emis,
	payment_type, emi_installments, emi_installment_amount, emi_frequency,
	version, created_at, created_by, last_updated_at, last_updated_by`

type PgxMoneyTransactionRepository struct {
	BaseRepository
}

func newPgxMoneyTransactionRepository(db *pgxpool.Pool) portsrepo.MoneyTransactionRepositoryFacade {
	return &PgxMoneyTransactionRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.MoneyTransactionRepositoryFacade = (*PgxMoneyTransactionRepository)(nil)

func scanMoneyTransaction(row pgx.Row) (*models.MoneyTransaction, error) {
	var m models.MoneyTransaction
	err := row.Scan(
		&m.TransactionID, &m.RequestID, &m.RequestorID, &m.LenderID, &m.Amount,
		&m.Status, &m.RepaymentAmount, &m.PendingRepaymentAmount,
		&m.MoneySentAt, &m.MoneyReceivedAt, &m.RepaymentSentAt, &m.RepaymentReceivedAt, &m.ForgivenAt,
		&m.ForgivenAmount, &m.RejectionReason,
		&m.EMIForgiveness, &m.TotalForgivenEMIs,
		&m.PaymentType, &m.EMIInstallments, &m.EMIInstallmentAmount, &m.EMIFrequency,
		&m.Version, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxMoneyTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.MoneyTransaction) error {
	m, err := mapping.ToModelMoneyTransaction(txn)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO money_transactions (` + moneyTransactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26);
	`
	_, err = tx.Exec(ctx, query,
		m.TransactionID, m.RequestID, m.RequestorID, m.LenderID, m.Amount,
		m.Status, m.RepaymentAmount, m.PendingRepaymentAmount,
		m.MoneySentAt, m.MoneyReceivedAt, m.RepaymentSentAt, m.RepaymentReceivedAt, m.ForgivenAt,
		m.ForgivenAmount, m.RejectionReason,
		m.EMIForgiveness, m.TotalForgivenEMIs,
		m.PaymentType, m.EMIInstallments, m.EMIInstallmentAmount, m.EMIFrequency,
		m.Version, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transaction for request %s: %w", m.RequestID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save money transaction: %w", err)
	}
	return nil
}

func (r *PgxMoneyTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.MoneyTransaction, error) {
	query := `SELECT ` + moneyTransactionColumns + ` FROM money_transactions WHERE transaction_id = $1;`
	return r.findOne(ctx, query, transactionID)
}

func (r *PgxMoneyTransactionRepository) FindTransactionByRequestID(ctx context.Context, requestID string) (*domain.MoneyTransaction, error) {
	query := `SELECT ` + moneyTransactionColumns + ` FROM money_transactions WHERE request_id = $1;`
	return r.findOne(ctx, query, requestID)
}

func (r *PgxMoneyTransactionRepository) findOne(ctx context.Context, query string, arg any) (*domain.MoneyTransaction, error) {
	m, err := scanMoneyTransaction(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("money transaction: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find money transaction: %w", err)
	}
	d, err := mapping.ToDomainMoneyTransaction(*m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PgxMoneyTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.MoneyTransaction, error) {
	query := `SELECT ` + moneyTransactionColumns + ` FROM money_transactions WHERE transaction_id = $1 FOR UPDATE;`
	m, err := scanMoneyTransaction(tx.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("money transaction %s: %w", transactionID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock money transaction %s: %w", transactionID, err)
	}
	d, err := mapping.ToDomainMoneyTransaction(*m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PgxMoneyTransactionRepository) UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.MoneyTransaction, expectedVersion int64) error {
	m, err := mapping.ToModelMoneyTransaction(txn)
	if err != nil {
		return err
	}
	query := `
		UPDATE money_transactions
		SET status = $1, repayment_amount = $2, pending_repayment_amount = $3,
		    money_sent_at = $4, money_received_at = $5, repayment_sent_at = $6,
		    repayment_received_at = $7, forgiven_at = $8, forgiven_amount = $9,
		    rejection_reason = $10, emi_forgiveness = $11, total_forgiven_emis = $12,
		    version = $13, last_updated_at = $14, last_updated_by = $15
		WHERE transaction_id = $16 AND version = $17;
	`
	tag, err := tx.Exec(ctx, query,
		m.Status, m.RepaymentAmount, m.PendingRepaymentAmount,
		m.MoneySentAt, m.MoneyReceivedAt, m.RepaymentSentAt,
		m.RepaymentReceivedAt, m.ForgivenAt, m.ForgivenAmount,
		m.RejectionReason, m.EMIForgiveness, m.TotalForgivenEMIs,
		m.Version, m.LastUpdatedAt, m.LastUpdatedBy,
		m.TransactionID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update money transaction %s: %w", m.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("money transaction %s changed concurrently: %w", m.TransactionID, apperrors.ErrConflict)
	}
	return nil
}

func (r *PgxMoneyTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, role domain.PartyRole, limit int, nextToken *string) ([]domain.MoneyTransaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	roleColumn := "requestor_id"
	if role == domain.RoleLender {
		roleColumn = "lender_id"
	}

	args := []any{userID}
	query := `SELECT ` + moneyTransactionColumns + ` FROM money_transactions WHERE ` + roleColumn + ` = $1`

	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, transaction_id) < ($2, $3)`
		args = append(args, createdAt, id)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, transaction_id DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query money transactions: %w", err)
	}
	defer rows.Close()

	ms := []models.MoneyTransaction{}
	for rows.Next() {
		m, err := scanMoneyTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan money transaction row: %w", err)
		}
		ms = append(ms, *m)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating money transaction rows: %w", rows.Err())
	}

	var token *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		token = &t
	}

	ds, err := mapping.ToDomainMoneyTransactionSlice(ms)
	if err != nil {
		return nil, nil, err
	}
	return ds, token, nil
}
