package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotificationEvent identifies what happened; the mobile client maps it to a
// template and deep link.
type NotificationEvent string

const (
	NotifyRequestCreated     NotificationEvent = "REQUEST_CREATED"
	NotifyRequestApproved    NotificationEvent = "REQUEST_APPROVED"
	NotifyRequestRejected    NotificationEvent = "REQUEST_REJECTED"
	NotifyMoneySent          NotificationEvent = "MONEY_SENT"
	NotifyMoneyReceived      NotificationEvent = "MONEY_RECEIVED"
	NotifyRepaymentSent      NotificationEvent = "REPAYMENT_SENT"
	NotifyRepaymentConfirmed NotificationEvent = "REPAYMENT_CONFIRMED"
	NotifyRepaymentRejected  NotificationEvent = "REPAYMENT_REJECTED"
	NotifyDebtForgiven       NotificationEvent = "DEBT_FORGIVEN"
	NotifyTaskAssigned       NotificationEvent = "TASK_ASSIGNED"
	NotifyTaskAccepted       NotificationEvent = "TASK_ACCEPTED"
	NotifyTaskDeclined       NotificationEvent = "TASK_DECLINED"
	NotifyTaskStarted        NotificationEvent = "TASK_STARTED"
	NotifyTaskCompleted      NotificationEvent = "TASK_COMPLETED"
	NotifyTaskConfirmed      NotificationEvent = "TASK_CONFIRMED"
	NotifyTaskCancelled      NotificationEvent = "TASK_CANCELLED"
	NotifyDisputeRaised      NotificationEvent = "DISPUTE_RAISED"
	NotifyDisputeResolved    NotificationEvent = "DISPUTE_RESOLVED"
)

// Notification is an in-app notification record. Push delivery is handled by
// an external system reading these rows; the core only appends them,
// best-effort.
type Notification struct {
	NotificationID string            `json:"notificationID"` // Primary Key (UUID)
	RecipientID    string            `json:"recipientID"`
	Event          NotificationEvent `json:"event"`
	Title          string            `json:"title"`
	Body           string            `json:"body"`
	Amount         *decimal.Decimal  `json:"amount,omitempty"`
	TransactionID  *string           `json:"transactionID,omitempty"`
	RequestID      *string           `json:"requestID,omitempty"`
	IsRead         bool              `json:"isRead"`
	CreatedAt      time.Time         `json:"createdAt"`
}
