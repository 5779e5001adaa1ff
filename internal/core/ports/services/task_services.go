package services

import (
	"context"

	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/good4it/good4it_backend/internal/dto"
)

// TaskReaderSvc defines read operations for tasks.
type TaskReaderSvc interface {
	// GetTaskByID retrieves a task visible to the given user.
	GetTaskByID(ctx context.Context, taskID string, requestingUserID string) (*domain.Task, error)

	// ListTasks retrieves a paginated list of the user's tasks.
	ListTasks(ctx context.Context, userID string, params dto.ListTasksParams) (*dto.ListTasksResponse, error)
}

// TaskWriterSvc defines the task-for-debt workflow transitions.
type TaskWriterSvc interface {
	// CreateTask assigns a chore against a debt (lender to borrower).
	CreateTask(ctx context.Context, req dto.CreateTaskRequest, actingUserID string) (*domain.Task, error)

	// AcceptTask moves PENDING to ACCEPTED. AssignedTo only.
	AcceptTask(ctx context.Context, taskID string, actingUserID string) (*domain.Task, error)

	// DeclineTask moves PENDING to DECLINED with a reason. AssignedTo only.
	DeclineTask(ctx context.Context, taskID string, actingUserID string, req dto.DeclineTaskRequest) (*domain.Task, error)

	// StartTask moves PENDING or ACCEPTED to IN_PROGRESS. AssignedTo only.
	StartTask(ctx context.Context, taskID string, actingUserID string) (*domain.Task, error)

	// CompleteTask moves IN_PROGRESS to COMPLETED. AssignedTo only.
	CompleteTask(ctx context.Context, taskID string, actingUserID string) (*domain.Task, error)

	// ConfirmTask moves COMPLETED to CONFIRMED and applies the monetary
	// effects to the referenced transaction, atomically. AssignedBy only.
	ConfirmTask(ctx context.Context, taskID string, actingUserID string) (*domain.Task, error)

	// CancelTask moves PENDING, ACCEPTED or IN_PROGRESS to CANCELLED.
	// AssignedBy only.
	CancelTask(ctx context.Context, taskID string, actingUserID string) (*domain.Task, error)
}

// TaskSvcFacade combines all task service interfaces.
type TaskSvcFacade interface {
	TaskReaderSvc
	TaskWriterSvc
}
