package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/good4it/good4it_backend/internal/apperrors"
	"github.com/good4it/good4it_backend/internal/core/domain"
	portsrepo "github.com/good4it/good4it_backend/internal/core/ports/repositories"
	portssvc "github.com/good4it/good4it_backend/internal/core/ports/services"
	"github.com/good4it/good4it_backend/internal/dto"
	"github.com/good4it/good4it_backend/internal/middleware"
	"github.com/good4it/good4it_backend/internal/utils/period"
)

// taskService implements the task-for-debt workflow. Confirmation is the one
// transition with monetary effect: it mutates the referenced transaction in
// the same database transaction as the task row.
type taskService struct {
	taskRepo        portsrepo.TaskRepositoryFacade
	transactionRepo portsrepo.MoneyTransactionRepositoryFacade
	friendshipSvc   portssvc.FriendshipSvcFacade
	ledger          portssvc.ReputationLedgerSvc
	notifier        portssvc.NotifierSvc
}

// NewTaskService creates a new task service.
func NewTaskService(
	taskRepo portsrepo.TaskRepositoryFacade,
	transactionRepo portsrepo.MoneyTransactionRepositoryFacade,
	friendshipSvc portssvc.FriendshipSvcFacade,
	ledger portssvc.ReputationLedgerSvc,
	notifier portssvc.NotifierSvc,
) portssvc.TaskSvcFacade {
	return &taskService{
		taskRepo:        taskRepo,
		transactionRepo: transactionRepo,
		friendshipSvc:   friendshipSvc,
		ledger:          ledger,
		notifier:        notifier,
	}
}

var _ portssvc.TaskSvcFacade = (*taskService)(nil)

// CreateTask assigns a chore against a debt. The transaction's lender becomes
// assignedBy, its borrower assignedTo; one active task per transaction.
func (s *taskService) CreateTask(ctx context.Context, req dto.CreateTaskRequest, actingUserID string) (*domain.Task, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.transactionRepo.FindTransactionByID(ctx, req.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find money transaction: %w", err)
	}
	if txn.RoleOf(actingUserID) != domain.RoleLender {
		return nil, fmt.Errorf("%w: only the lender can assign a task", apperrors.ErrForbidden)
	}
	if txn.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: cannot assign a task against a %s transaction", apperrors.ErrConflict, txn.Status)
	}

	friends, err := s.friendshipSvc.AreFriends(ctx, txn.LenderID, txn.RequestorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check friendship: %w", err)
	}
	if !friends {
		return nil, fmt.Errorf("%w: tasks can only be assigned between friends", apperrors.ErrForbidden)
	}

	if _, err := s.taskRepo.FindActiveTaskByTransactionID(ctx, req.TransactionID); err == nil {
		return nil, fmt.Errorf("%w: transaction already has an active task", apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for active task: %w", err)
	}

	forgiveness, err := validateTaskForgiveness(req, txn)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := domain.Task{
		TaskID:         uuid.NewString(),
		AssignedByID:   txn.LenderID,
		AssignedToID:   txn.RequestorID,
		TransactionID:  txn.TransactionID,
		Title:          req.Title,
		Description:    req.Description,
		MonetaryValue:  req.MonetaryValue,
		Status:         domain.TaskPending,
		IsEMITask:      req.IsEMITask,
		EMIForgiveness: forgiveness,
		Version:        1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actingUserID,
		},
	}

	if err := s.taskRepo.SaveTask(ctx, task); err != nil {
		logger.Error("Failed to save task", slog.String("transaction_id", txn.TransactionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	logger.Info("Task created", slog.String("task_id", task.TaskID), slog.String("transaction_id", txn.TransactionID), slog.Bool("emi_task", task.IsEMITask))
	s.notifyQuietly(ctx, task.AssignedToID, domain.NotifyTaskAssigned, "New task assigned",
		task.Title, nil, &task.TransactionID)

	return &task, nil
}

// AcceptTask moves PENDING to ACCEPTED. AssignedTo only.
func (s *taskService) AcceptTask(ctx context.Context, taskID string, actingUserID string) (*domain.Task, error) {
	task, err := s.transition(ctx, taskID, func(task *domain.Task, now time.Time) error {
		if task.RoleOf(actingUserID) != domain.RoleAssignedTo {
			return fmt.Errorf("%w: only the assignee can accept a task", apperrors.ErrForbidden)
		}
		if task.Status != domain.TaskPending {
			return fmt.Errorf("%w: task can only be accepted from PENDING, current status is %s", apperrors.ErrConflict, task.Status)
		}
		task.Status = domain.TaskAccepted
		task.AcceptedAt = &now
		return nil
	}, actingUserID)
	if err != nil {
		return nil, err
	}

	s.notifyQuietly(ctx, task.AssignedByID, domain.NotifyTaskAccepted, "Task accepted", task.Title, nil, &task.TransactionID)
	return task, nil
}

// DeclineTask moves PENDING to DECLINED with a reason. AssignedTo only.
func (s *taskService) DeclineTask(ctx context.Context, taskID string, actingUserID string, req dto.DeclineTaskRequest) (*domain.Task, error) {
	if req.Reason == "" {
		return nil, fmt.Errorf("%w: decline reason is required", apperrors.ErrValidation)
	}

	task, err := s.transition(ctx, taskID, func(task *domain.Task, now time.Time) error {
		if task.RoleOf(actingUserID) != domain.RoleAssignedTo {
			return fmt.Errorf("%w: only the assignee can decline a task", apperrors.ErrForbidden)
		}
		if task.Status != domain.TaskPending {
			return fmt.Errorf("%w: task can only be declined from PENDING, current status is %s", apperrors.ErrConflict, task.Status)
		}
		task.Status = domain.TaskDeclined
		task.DeclineReason = &req.Reason
		return nil
	}, actingUserID)
	if err != nil {
		return nil, err
	}

	s.notifyQuietly(ctx, task.AssignedByID, domain.NotifyTaskDeclined, "Task declined", req.Reason, nil, &task.TransactionID)
	return task, nil
}

// StartTask moves PENDING or ACCEPTED to IN_PROGRESS. AssignedTo only.
func (s *taskService) StartTask(ctx context.Context, taskID string, actingUserID string) (*domain.Task, error) {
	task, err := s.transition(ctx, taskID, func(task *domain.Task, now time.Time) error {
		if task.RoleOf(actingUserID) != domain.RoleAssignedTo {
			return fmt.Errorf("%w: only the assignee can start a task", apperrors.ErrForbidden)
		}
		if task.Status != domain.TaskPending && task.Status != domain.TaskAccepted {
			return fmt.Errorf("%w: task can only be started from PENDING or ACCEPTED, current status is %s", apperrors.ErrConflict, task.Status)
		}
		task.Status = domain.TaskInProgress
		task.StartedAt = &now
		return nil
	}, actingUserID)
	if err != nil {
		return nil, err
	}

	s.notifyQuietly(ctx, task.AssignedByID, domain.NotifyTaskStarted, "Task started", task.Title, nil, &task.TransactionID)
	return task, nil
}

// CompleteTask moves IN_PROGRESS to COMPLETED. AssignedTo only.
func (s *taskService) CompleteTask(ctx context.Context, taskID string, actingUserID string) (*domain.Task, error) {
	task, err := s.transition(ctx, taskID, func(task *domain.Task, now time.Time) error {
		if task.RoleOf(actingUserID) != domain.RoleAssignedTo {
			return fmt.Errorf("%w: only the assignee can complete a task", apperrors.ErrForbidden)
		}
		if task.Status != domain.TaskInProgress {
			return fmt.Errorf("%w: task can only be completed from IN_PROGRESS, current status is %s", apperrors.ErrConflict, task.Status)
		}
		task.Status = domain.TaskCompleted
		task.CompletedAt = &now
		return nil
	}, actingUserID)
	if err != nil {
		return nil, err
	}

	s.notifyQuietly(ctx, task.AssignedByID, domain.NotifyTaskCompleted, "Task completed", task.Title, nil, &task.TransactionID)
	return task, nil
}

// ConfirmTask moves COMPLETED to CONFIRMED and applies the task's monetary
// effect to the referenced transaction. Both rows commit or neither does.
// AssignedBy only.
func (s *taskService) ConfirmTask(ctx context.Context, taskID string, actingUserID string) (*domain.Task, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.taskRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.taskRepo.Rollback(ctx, tx)

	task, err := s.taskRepo.FindTaskByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task.RoleOf(actingUserID) != domain.RoleAssignedBy {
		return nil, fmt.Errorf("%w: only the assigner can confirm a task", apperrors.ErrForbidden)
	}
	if task.Status != domain.TaskCompleted {
		return nil, fmt.Errorf("%w: task can only be confirmed from COMPLETED, current status is %s", apperrors.ErrConflict, task.Status)
	}

	txn, err := s.transactionRepo.FindTransactionByIDForUpdate(ctx, tx, task.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find money transaction: %w", err)
	}
	expectedTaskVersion := task.Version
	expectedTxnVersion := txn.Version

	now := time.Now().UTC()
	if err := ApplyTaskConfirmation(txn, task, now); err != nil {
		return nil, err
	}

	task.Status = domain.TaskConfirmed
	task.ConfirmedAt = &now
	task.Version++
	task.LastUpdatedAt = now
	task.LastUpdatedBy = actingUserID

	txn.Version++
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actingUserID

	if err := s.taskRepo.UpdateTaskInTx(ctx, tx, *task, expectedTaskVersion); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if err := s.transactionRepo.UpdateTransactionInTx(ctx, tx, *txn, expectedTxnVersion); err != nil {
		return nil, fmt.Errorf("failed to update money transaction: %w", err)
	}
	if err := s.taskRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Task confirmed",
		slog.String("task_id", task.TaskID), slog.String("transaction_id", txn.TransactionID),
		slog.String("transaction_status", string(txn.Status)), slog.Int("total_forgiven_emis", txn.TotalForgivenEMIs))

	s.recordScoreQuietly(ctx, task.AssignedToID, domain.ScoreEventTaskConfirmed, &txn.TransactionID)
	s.notifyQuietly(ctx, task.AssignedToID, domain.NotifyTaskConfirmed, "Task confirmed", task.Title, nil, &task.TransactionID)

	return task, nil
}

// CancelTask moves PENDING, ACCEPTED or IN_PROGRESS to CANCELLED. AssignedBy
// only.
func (s *taskService) CancelTask(ctx context.Context, taskID string, actingUserID string) (*domain.Task, error) {
	task, err := s.transition(ctx, taskID, func(task *domain.Task, now time.Time) error {
		if task.RoleOf(actingUserID) != domain.RoleAssignedBy {
			return fmt.Errorf("%w: only the assigner can cancel a task", apperrors.ErrForbidden)
		}
		switch task.Status {
		case domain.TaskPending, domain.TaskAccepted, domain.TaskInProgress:
		default:
			return fmt.Errorf("%w: task cannot be cancelled from %s", apperrors.ErrConflict, task.Status)
		}
		task.Status = domain.TaskCancelled
		task.CancelledAt = &now
		return nil
	}, actingUserID)
	if err != nil {
		return nil, err
	}

	s.notifyQuietly(ctx, task.AssignedToID, domain.NotifyTaskCancelled, "Task cancelled", task.Title, nil, &task.TransactionID)
	return task, nil
}

// GetTaskByID retrieves a task visible to the given user.
func (s *taskService) GetTaskByID(ctx context.Context, taskID string, requestingUserID string) (*domain.Task, error) {
	task, err := s.taskRepo.FindTaskByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task.RoleOf(requestingUserID) == "" {
		return nil, fmt.Errorf("%w: task belongs to other users", apperrors.ErrForbidden)
	}
	return task, nil
}

// ListTasks retrieves a paginated list of the user's tasks in the given role,
// defaulting to tasks assigned to the user.
func (s *taskService) ListTasks(ctx context.Context, userID string, params dto.ListTasksParams) (*dto.ListTasksResponse, error) {
	role := domain.RoleAssignedTo
	if params.Role == string(domain.RoleAssignedBy) {
		role = domain.RoleAssignedBy
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	tasks, nextToken, err := s.taskRepo.ListTasksByUser(ctx, userID, role, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return &dto.ListTasksResponse{
		Tasks:     dto.ToTaskResponses(tasks),
		NextToken: nextToken,
	}, nil
}

// transition runs one task state-machine step under a row lock and a version
// check.
func (s *taskService) transition(ctx context.Context, taskID string, mutate func(task *domain.Task, now time.Time) error, actingUserID string) (*domain.Task, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.taskRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.taskRepo.Rollback(ctx, tx)

	task, err := s.taskRepo.FindTaskByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	expectedVersion := task.Version

	now := time.Now().UTC()
	if err := mutate(task, now); err != nil {
		return nil, err
	}

	task.Version++
	task.LastUpdatedAt = now
	task.LastUpdatedBy = actingUserID

	if err := s.taskRepo.UpdateTaskInTx(ctx, tx, *task, expectedVersion); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if err := s.taskRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Task transitioned", slog.String("task_id", task.TaskID), slog.String("status", string(task.Status)))
	return task, nil
}

func (s *taskService) recordScoreQuietly(ctx context.Context, userID string, event domain.ScoreEvent, transactionID *string) {
	if err := s.ledger.RecordLifecycleEvent(ctx, userID, event, transactionID); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to record score event",
			slog.String("user_id", userID), slog.String("event", string(event)), slog.String("error", err.Error()))
	}
}

func (s *taskService) notifyQuietly(ctx context.Context, recipientID string, event domain.NotificationEvent, title, body string, amount *decimal.Decimal, transactionID *string) {
	if err := s.notifier.Notify(ctx, recipientID, event, title, body, amount, transactionID, nil); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to dispatch notification",
			slog.String("recipient_id", recipientID), slog.String("event", string(event)), slog.String("error", err.Error()))
	}
}

// validateTaskForgiveness checks the EMI window of an EMI task against the
// transaction's payment terms, deriving the end month. Plain tasks must carry
// a positive monetary value and no window.
func validateTaskForgiveness(req dto.CreateTaskRequest, txn *domain.MoneyTransaction) (*domain.TaskEMIForgiveness, error) {
	if !req.IsEMITask {
		if req.EMIForgiveness != nil {
			return nil, fmt.Errorf("%w: emiForgiveness is only allowed on EMI tasks", apperrors.ErrValidation)
		}
		if !req.MonetaryValue.IsPositive() {
			return nil, fmt.Errorf("%w: monetaryValue must be positive", apperrors.ErrValidation)
		}
		return nil, nil
	}

	if txn.PaymentType != domain.PaymentEMI || txn.EMIDetails == nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNotEmiTransaction)
	}
	if req.EMIForgiveness == nil {
		return nil, fmt.Errorf("%w: emiForgiveness is required on EMI tasks", apperrors.ErrValidation)
	}
	if req.EMIForgiveness.ForgivenEMIs < 1 {
		return nil, fmt.Errorf("%w: forgivenEMIs must be at least 1", apperrors.ErrValidation)
	}
	if limit := MaxForgivableEMIs(txn.Amount); req.EMIForgiveness.ForgivenEMIs > limit {
		return nil, fmt.Errorf("%w: at most %d EMIs can be forgiven for this loan", apperrors.ErrValidation, limit)
	}
	if _, err := period.ParseMonthKey(req.EMIForgiveness.StartMonth); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	endMonth, err := period.AddMonths(req.EMIForgiveness.StartMonth, req.EMIForgiveness.ForgivenEMIs-1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	return &domain.TaskEMIForgiveness{
		ForgivenEMIs: req.EMIForgiveness.ForgivenEMIs,
		StartMonth:   req.EMIForgiveness.StartMonth,
		EndMonth:     endMonth,
	}, nil
}
