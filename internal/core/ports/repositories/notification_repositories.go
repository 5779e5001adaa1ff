package repositories

import (
	"context"

	"github.com/good4it/good4it_backend/internal/core/domain"
)

// NotificationReader defines read operations for in-app notifications.
type NotificationReader interface {
	// ListNotificationsByRecipient retrieves a paginated list of a user's
	// notifications, newest first.
	ListNotificationsByRecipient(ctx context.Context, recipientID string, limit int, nextToken *string) ([]domain.Notification, *string, error)
}

// NotificationWriter defines write operations for in-app notifications.
type NotificationWriter interface {
	// SaveNotification appends a notification record.
	SaveNotification(ctx context.Context, notification domain.Notification) error

	// MarkNotificationRead flags a notification as read. Scoped to the
	// recipient so users cannot touch each other's rows.
	MarkNotificationRead(ctx context.Context, notificationID string, recipientID string) error
}

// NotificationRepositoryFacade combines all notification repository interfaces.
type NotificationRepositoryFacade interface {
	NotificationReader
	NotificationWriter
}
