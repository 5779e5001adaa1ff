package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Notification is the database row for an in-app notification.
type Notification struct {
	NotificationID string           `db:"notification_id"`
	RecipientID    string           `db:"recipient_id"`
	Event          string           `db:"event"`
	Title          string           `db:"title"`
	Body           string           `db:"body"`
	Amount         *decimal.Decimal `db:"amount"`
	TransactionID  *string          `db:"transaction_id"`
	RequestID      *string          `db:"request_id"`
	IsRead         bool             `db:"is_read"`
	CreatedAt      time.Time        `db:"created_at"`
}
