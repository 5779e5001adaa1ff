package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Task is the database row for a task-for-debt chore. The EMI window columns
// are null unless is_emi_task is set.
type Task struct {
	TaskID        string          `db:"task_id"`
	AssignedByID  string          `db:"assigned_by_id"`
	AssignedToID  string          `db:"assigned_to_id"`
	TransactionID string          `db:"transaction_id"`
	Title         string          `db:"title"`
	Description   string          `db:"description"`
	MonetaryValue decimal.Decimal `db:"monetary_value"`

	Status    string `db:"status"`
	IsEMITask bool   `db:"is_emi_task"`

	ForgivenEMIs *int    `db:"forgiven_emis"`
	StartMonth   *string `db:"start_month"`
	EndMonth     *string `db:"end_month"`

	DeclineReason *string    `db:"decline_reason"`
	AcceptedAt    *time.Time `db:"accepted_at"`
	StartedAt     *time.Time `db:"started_at"`
	CompletedAt   *time.Time `db:"completed_at"`
	ConfirmedAt   *time.Time `db:"confirmed_at"`
	CancelledAt   *time.Time `db:"cancelled_at"`

	Version int64 `db:"version"`

	AuditFields
}
