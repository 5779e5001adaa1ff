package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/good4it/good4it_backend/internal/core/domain"
	portsrepo "github.com/good4it/good4it_backend/internal/core/ports/repositories"
	portssvc "github.com/good4it/good4it_backend/internal/core/ports/services"
	"github.com/good4it/good4it_backend/internal/dto"
	"github.com/good4it/good4it_backend/internal/middleware"
	"github.com/good4it/good4it_backend/internal/utils"
)

// notificationService appends in-app notification rows and exposes the read
// surface. Callers treat Notify as best-effort.
type notificationService struct {
	notificationRepo portsrepo.NotificationRepositoryFacade
	posthogClient    *utils.PosthogClientWrapper
}

// NewNotificationService creates a new notification service.
func NewNotificationService(notificationRepo portsrepo.NotificationRepositoryFacade, posthogClient *utils.PosthogClientWrapper) portssvc.NotificationSvcFacade {
	return &notificationService{notificationRepo: notificationRepo, posthogClient: posthogClient}
}

var _ portssvc.NotificationSvcFacade = (*notificationService)(nil)

// Notify appends an in-app notification record for the recipient. Push
// delivery happens outside the core, off these rows.
func (s *notificationService) Notify(ctx context.Context, recipientID string, event domain.NotificationEvent, title string, body string, amount *decimal.Decimal, transactionID *string, requestID *string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	notification := domain.Notification{
		NotificationID: uuid.NewString(),
		RecipientID:    recipientID,
		Event:          event,
		Title:          title,
		Body:           body,
		Amount:         amount,
		TransactionID:  transactionID,
		RequestID:      requestID,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.notificationRepo.SaveNotification(ctx, notification); err != nil {
		logger.Error("Failed to save notification", slog.String("recipient_id", recipientID), slog.String("event", string(event)), slog.String("error", err.Error()))
		return fmt.Errorf("failed to save notification: %w", err)
	}

	s.posthogClient.Enqueue(recipientID, "notification_created", map[string]any{
		"event": string(event),
	})

	return nil
}

// ListNotifications retrieves a page of the user's notifications, newest
// first.
func (s *notificationService) ListNotifications(ctx context.Context, userID string, params dto.ListNotificationsParams) (*dto.ListNotificationsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	notifications, nextToken, err := s.notificationRepo.ListNotificationsByRecipient(ctx, userID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return &dto.ListNotificationsResponse{
		Notifications: dto.ToNotificationResponses(notifications),
		NextToken:     nextToken,
	}, nil
}

// MarkNotificationRead flags one of the user's notifications as read.
func (s *notificationService) MarkNotificationRead(ctx context.Context, notificationID string, userID string) error {
	if err := s.notificationRepo.MarkNotificationRead(ctx, notificationID, userID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
