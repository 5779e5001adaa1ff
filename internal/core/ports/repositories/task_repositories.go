package repositories

import (
	"context"

	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TaskReader defines read operations for task data.
type TaskReader interface {
	// FindTaskByID retrieves a specific task by its identifier.
	FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error)

	// FindActiveTaskByTransactionID retrieves the non-terminal task attached
	// to a transaction, or apperrors.ErrNotFound when there is none.
	FindActiveTaskByTransactionID(ctx context.Context, transactionID string) (*domain.Task, error)

	// ListTasksByUser retrieves a paginated list of tasks where the user holds
	// the given role (assignedBy or assignedTo), newest first.
	ListTasksByUser(ctx context.Context, userID string, role domain.PartyRole, limit int, nextToken *string) ([]domain.Task, *string, error)
}

// TaskWriter defines write operations for task data.
type TaskWriter interface {
	// SaveTask persists a new task. Returns apperrors.ErrDuplicate when a
	// non-terminal task already exists for the same transaction.
	SaveTask(ctx context.Context, task domain.Task) error

	// FindTaskByIDForUpdate retrieves a task inside tx with a row lock.
	FindTaskByIDForUpdate(ctx context.Context, tx pgx.Tx, taskID string) (*domain.Task, error)

	// UpdateTaskInTx persists a transitioned task inside tx, conditional on
	// the stored version matching expectedVersion (apperrors.ErrConflict on
	// mismatch).
	UpdateTaskInTx(ctx context.Context, tx pgx.Tx, task domain.Task, expectedVersion int64) error
}

// TaskRepositoryFacade combines all task repository interfaces.
type TaskRepositoryFacade interface {
	TaskReader
	TaskWriter
	TransactionManager
}
