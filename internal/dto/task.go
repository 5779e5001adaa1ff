package dto

import (
	"time"

	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TaskEMIForgivenessRequest describes the instalment window an EMI task
// forgives. EndMonth is derived server-side, never accepted from the client.
type TaskEMIForgivenessRequest struct {
	ForgivenEMIs int    `json:"forgivenEMIs" binding:"required,min=1,max=24"`
	StartMonth   string `json:"startMonth" binding:"required"` // "YYYY-MM"
}

// CreateTaskRequest defines the data needed to assign a chore against a debt.
type CreateTaskRequest struct {
	TransactionID  string                     `json:"transactionID" binding:"required"`
	Title          string                     `json:"title" binding:"required"`
	Description    string                     `json:"description"`
	MonetaryValue  decimal.Decimal            `json:"monetaryValue"`
	IsEMITask      bool                       `json:"isEMITask"`
	EMIForgiveness *TaskEMIForgivenessRequest `json:"emiForgiveness,omitempty"` // required iff isEMITask
}

// DeclineTaskRequest carries the borrower's reason for declining.
type DeclineTaskRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListTasksParams holds query parameters for task listing.
type ListTasksParams struct {
	Role      string  `form:"role" binding:"omitempty,oneof=ASSIGNED_BY ASSIGNED_TO"`
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// TaskEMIForgivenessResponse mirrors domain.TaskEMIForgiveness.
type TaskEMIForgivenessResponse struct {
	ForgivenEMIs int    `json:"forgivenEMIs"`
	StartMonth   string `json:"startMonth"`
	EndMonth     string `json:"endMonth"`
}

// TaskResponse defines the data returned for a task.
type TaskResponse struct {
	TaskID         string                      `json:"taskID"`
	AssignedByID   string                      `json:"assignedByID"`
	AssignedToID   string                      `json:"assignedToID"`
	TransactionID  string                      `json:"transactionID"`
	Title          string                      `json:"title"`
	Description    string                      `json:"description"`
	MonetaryValue  decimal.Decimal             `json:"monetaryValue"`
	Status         string                      `json:"status"`
	IsEMITask      bool                        `json:"isEMITask"`
	EMIForgiveness *TaskEMIForgivenessResponse `json:"emiForgiveness,omitempty"`
	DeclineReason  *string                     `json:"declineReason,omitempty"`
	AcceptedAt     *time.Time                  `json:"acceptedAt,omitempty"`
	StartedAt      *time.Time                  `json:"startedAt,omitempty"`
	CompletedAt    *time.Time                  `json:"completedAt,omitempty"`
	ConfirmedAt    *time.Time                  `json:"confirmedAt,omitempty"`
	CancelledAt    *time.Time                  `json:"cancelledAt,omitempty"`
	CreatedAt      time.Time                   `json:"createdAt"`
}

// ListTasksResponse wraps a page of tasks with the next token.
type ListTasksResponse struct {
	Tasks     []TaskResponse `json:"tasks"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToTaskResponse converts a domain.Task to its response DTO.
func ToTaskResponse(t *domain.Task) TaskResponse {
	resp := TaskResponse{
		TaskID:        t.TaskID,
		AssignedByID:  t.AssignedByID,
		AssignedToID:  t.AssignedToID,
		TransactionID: t.TransactionID,
		Title:         t.Title,
		Description:   t.Description,
		MonetaryValue: t.MonetaryValue,
		Status:        string(t.Status),
		IsEMITask:     t.IsEMITask,
		DeclineReason: t.DeclineReason,
		AcceptedAt:    t.AcceptedAt,
		StartedAt:     t.StartedAt,
		CompletedAt:   t.CompletedAt,
		ConfirmedAt:   t.ConfirmedAt,
		CancelledAt:   t.CancelledAt,
		CreatedAt:     t.CreatedAt,
	}
	if t.EMIForgiveness != nil {
		resp.EMIForgiveness = &TaskEMIForgivenessResponse{
			ForgivenEMIs: t.EMIForgiveness.ForgivenEMIs,
			StartMonth:   t.EMIForgiveness.StartMonth,
			EndMonth:     t.EMIForgiveness.EndMonth,
		}
	}
	return resp
}

// ToTaskResponses converts a slice of domain tasks.
func ToTaskResponses(tasks []domain.Task) []TaskResponse {
	responses := make([]TaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = ToTaskResponse(&tasks[i])
	}
	return responses
}
