package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaskStatus indicates the state of a task-for-debt chore.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskAccepted   TaskStatus = "ACCEPTED"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskConfirmed  TaskStatus = "CONFIRMED"
	TaskDeclined   TaskStatus = "DECLINED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

// IsTerminal reports whether the task status permits no further transitions.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskConfirmed || s == TaskDeclined || s == TaskCancelled
}

// TaskEMIForgiveness describes the instalment window a confirmed EMI task
// writes off. Present only when IsEMITask is set.
type TaskEMIForgiveness struct {
	ForgivenEMIs int    `json:"forgivenEMIs"` // 1..24, additionally capped by loan size
	StartMonth   string `json:"startMonth"`   // "YYYY-MM"
	EndMonth     string `json:"endMonth"`     // derived: startMonth + forgivenEMIs - 1
}

// Task is a real-world chore assigned by a lender to a borrower in lieu of
// (partial) repayment. Confirmation is the point at which monetary effects are
// applied to the referenced transaction, and it is irreversible.
type Task struct {
	TaskID        string          `json:"taskID"` // Primary Key (UUID)
	AssignedByID  string          `json:"assignedByID"`
	AssignedToID  string          `json:"assignedToID"`
	TransactionID string          `json:"transactionID"` // the debt this task settles against
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	MonetaryValue decimal.Decimal `json:"monetaryValue"` // may be zero for EMI-only tasks

	Status        TaskStatus          `json:"status"`
	IsEMITask     bool                `json:"isEMITask"`
	EMIForgiveness *TaskEMIForgiveness `json:"emiForgiveness,omitempty"`

	DeclineReason *string    `json:"declineReason,omitempty"`
	AcceptedAt    *time.Time `json:"acceptedAt,omitempty"`
	StartedAt     *time.Time `json:"startedAt,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	ConfirmedAt   *time.Time `json:"confirmedAt,omitempty"`
	CancelledAt   *time.Time `json:"cancelledAt,omitempty"`

	Version int64 `json:"version"`

	AuditFields
}

// RoleOf resolves the party role the given user holds on this task.
func (t *Task) RoleOf(userID string) PartyRole {
	switch userID {
	case t.AssignedByID:
		return RoleAssignedBy
	case t.AssignedToID:
		return RoleAssignedTo
	default:
		return ""
	}
}
