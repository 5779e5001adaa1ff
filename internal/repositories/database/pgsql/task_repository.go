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

const taskColumns = `task_id, assigned_by_id, assigned_to_id, transaction_id, title, description, monetary_value,
	status, is_emi_task, forgiven_emis, start_month, end_month,
	decline_reason, accepted_at, started_at, completed_at, confirmed_at, cancelled_at,
	version, created_at, created_by, last_updated_at, last_updated_by`

// Non-terminal task statuses, used to enforce one active task per transaction.
const activeTaskStatuses = `('PENDING', 'ACCEPTED', 'IN_PROGRESS', 'COMPLETED')`

type PgxTaskRepository struct {
	BaseRepository
}

func newPgxTaskRepository(db *pgxpool.Pool) portsrepo.TaskRepositoryFacade {
	return &PgxTaskRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.TaskRepositoryFacade = (*PgxTaskRepository)(nil)

func scanTask(row pgx.Row) (*models.Task, error) {
	var m models.Task
	err := row.Scan(
		&m.TaskID, &m.AssignedByID, &m.AssignedToID, &m.TransactionID, &m.Title, &m.Description, &m.MonetaryValue,
		&m.Status, &m.IsEMITask, &m.ForgivenEMIs, &m.StartMonth, &m.EndMonth,
		&m.DeclineReason, &m.AcceptedAt, &m.StartedAt, &m.CompletedAt, &m.ConfirmedAt, &m.CancelledAt,
		&m.Version, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxTaskRepository) SaveTask(ctx context.Context, task domain.Task) error {
	m := mapping.ToModelTask(task)
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TaskID, m.AssignedByID, m.AssignedToID, m.TransactionID, m.Title, m.Description, m.MonetaryValue,
		m.Status, m.IsEMITask, m.ForgivenEMIs, m.StartMonth, m.EndMonth,
		m.DeclineReason, m.AcceptedAt, m.StartedAt, m.CompletedAt, m.ConfirmedAt, m.CancelledAt,
		m.Version, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		// The partial unique index on transaction_id guards the one-active-task
		// invariant against concurrent creates.
		if isUniqueViolation(err) {
			return fmt.Errorf("active task for transaction %s: %w", m.TransactionID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

func (r *PgxTaskRepository) FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE task_id = $1;`
	m, err := scanTask(r.Pool.QueryRow(ctx, query, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", taskID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find task by ID %s: %w", taskID, err)
	}
	d := mapping.ToDomainTask(*m)
	return &d, nil
}

func (r *PgxTaskRepository) FindActiveTaskByTransactionID(ctx context.Context, transactionID string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE transaction_id = $1 AND status IN ` + activeTaskStatuses + ` LIMIT 1;`
	m, err := scanTask(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("active task for transaction %s: %w", transactionID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find active task for transaction %s: %w", transactionID, err)
	}
	d := mapping.ToDomainTask(*m)
	return &d, nil
}

func (r *PgxTaskRepository) FindTaskByIDForUpdate(ctx context.Context, tx pgx.Tx, taskID string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE task_id = $1 FOR UPDATE;`
	m, err := scanTask(tx.QueryRow(ctx, query, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", taskID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock task %s: %w", taskID, err)
	}
	d := mapping.ToDomainTask(*m)
	return &d, nil
}

func (r *PgxTaskRepository) UpdateTaskInTx(ctx context.Context, tx pgx.Tx, task domain.Task, expectedVersion int64) error {
	m := mapping.ToModelTask(task)
	query := `
		UPDATE tasks
		SET status = $1, decline_reason = $2,
		    accepted_at = $3, started_at = $4, completed_at = $5, confirmed_at = $6, cancelled_at = $7,
		    version = $8, last_updated_at = $9, last_updated_by = $10
		WHERE task_id = $11 AND version = $12;
	`
	tag, err := tx.Exec(ctx, query,
		m.Status, m.DeclineReason,
		m.AcceptedAt, m.StartedAt, m.CompletedAt, m.ConfirmedAt, m.CancelledAt,
		m.Version, m.LastUpdatedAt, m.LastUpdatedBy,
		m.TaskID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update task %s: %w", m.TaskID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s changed concurrently: %w", m.TaskID, apperrors.ErrConflict)
	}
	return nil
}

func (r *PgxTaskRepository) ListTasksByUser(ctx context.Context, userID string, role domain.PartyRole, limit int, nextToken *string) ([]domain.Task, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	roleColumn := "assigned_to_id"
	if role == domain.RoleAssignedBy {
		roleColumn = "assigned_by_id"
	}

	args := []any{userID}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + roleColumn + ` = $1`

	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, task_id) < ($2, $3)`
		args = append(args, createdAt, id)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, task_id DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	ms := []models.Task{}
	for rows.Next() {
		m, err := scanTask(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		ms = append(ms, *m)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating task rows: %w", rows.Err())
	}

	var token *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.TaskID)
		token = &t
	}

	return mapping.ToDomainTaskSlice(ms), token, nil
}
