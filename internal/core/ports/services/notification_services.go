package services

import (
	"context"

	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/good4it/good4it_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// NotifierSvc is the notification-dispatch port. Delivery mechanics (push,
// device tokens, retries) live outside the core; callers treat every Notify as
// best-effort and never propagate its failure.
type NotifierSvc interface {
	Notify(ctx context.Context, recipientID string, event domain.NotificationEvent, title string, body string, amount *decimal.Decimal, transactionID *string, requestID *string) error
}

// NotificationReaderSvc defines the in-app notification read surface.
type NotificationReaderSvc interface {
	// ListNotifications retrieves a page of the user's notifications.
	ListNotifications(ctx context.Context, userID string, params dto.ListNotificationsParams) (*dto.ListNotificationsResponse, error)

	// MarkNotificationRead flags one of the user's notifications as read.
	MarkNotificationRead(ctx context.Context, notificationID string, userID string) error
}

// NotificationSvcFacade combines dispatch with the read surface.
type NotificationSvcFacade interface {
	NotifierSvc
	NotificationReaderSvc
}
