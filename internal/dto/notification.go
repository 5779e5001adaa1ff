package dto

import (
	"time"

	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NotificationResponse defines the data returned for an in-app notification.
type NotificationResponse struct {
	NotificationID string           `json:"notificationID"`
	Event          string           `json:"event"`
	Title          string           `json:"title"`
	Body           string           `json:"body"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	TransactionID  *string          `json:"transactionID,omitempty"`
	RequestID      *string          `json:"requestID,omitempty"`
	IsRead         bool             `json:"isRead"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// ListNotificationsParams holds query parameters for notification listing.
type ListNotificationsParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListNotificationsResponse wraps a page of notifications.
type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	NextToken     *string                `json:"nextToken,omitempty"`
}

// ToNotificationResponses converts a slice of domain notifications.
func ToNotificationResponses(notifications []domain.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = NotificationResponse{
			NotificationID: n.NotificationID,
			Event:          string(n.Event),
			Title:          n.Title,
			Body:           n.Body,
			Amount:         n.Amount,
			TransactionID:  n.TransactionID,
			RequestID:      n.RequestID,
			IsRead:         n.IsRead,
			CreatedAt:      n.CreatedAt,
		}
	}
	return responses
}
