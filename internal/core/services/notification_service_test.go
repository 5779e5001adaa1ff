package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/good4it/good4it_backend/internal/apperrors"
	"github.com/good4it/good4it_backend/internal/core/domain"
	portssvc "github.com/good4it/good4it_backend/internal/core/ports/services"
	"github.com/good4it/good4it_backend/internal/core/services"
	"github.com/good4it/good4it_backend/internal/dto"
	"github.com/good4it/good4it_backend/internal/utils"
)

func newNotificationService(mockRepo *MockNotificationRepository) portssvc.NotificationSvcFacade {
	// An uninitialized posthog wrapper is a safe no-op.
	return services.NewNotificationService(mockRepo, &utils.PosthogClientWrapper{})
}

func TestNotify_AppendsRecord(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	svc := newNotificationService(mockRepo)
	recipientID := uuid.NewString()
	transactionID := uuid.NewString()
	amount := decimal.NewFromInt(40)

	mockRepo.On("SaveNotification", mock.Anything, mock.MatchedBy(func(notification domain.Notification) bool {
		return notification.RecipientID == recipientID &&
			notification.Event == domain.NotifyRepaymentConfirmed &&
			notification.TransactionID != nil && *notification.TransactionID == transactionID &&
			!notification.IsRead
	})).Return(nil).Once()

	err := svc.Notify(context.Background(), recipientID, domain.NotifyRepaymentConfirmed,
		"Repayment confirmed", "Your repayment was confirmed", &amount, &transactionID, nil)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestNotify_SaveFailurePropagates(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	svc := newNotificationService(mockRepo)

	mockRepo.On("SaveNotification", mock.Anything, mock.Anything).Return(errDelivery).Once()

	err := svc.Notify(context.Background(), uuid.NewString(), domain.NotifyMoneySent, "Money sent", "", nil, nil, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, errDelivery)
}

func TestListNotifications_DefaultsLimit(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	svc := newNotificationService(mockRepo)
	userID := uuid.NewString()

	mockRepo.On("ListNotificationsByRecipient", mock.Anything, userID, 20, (*string)(nil)).
		Return([]domain.Notification{{NotificationID: uuid.NewString(), RecipientID: userID}}, nil, nil).Once()

	resp, err := svc.ListNotifications(context.Background(), userID, dto.ListNotificationsParams{})

	require.NoError(t, err)
	assert.Len(t, resp.Notifications, 1)
	assert.Nil(t, resp.NextToken)
}

func TestMarkNotificationRead_NotFoundPropagates(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	svc := newNotificationService(mockRepo)
	notificationID := uuid.NewString()
	userID := uuid.NewString()

	mockRepo.On("MarkNotificationRead", mock.Anything, notificationID, userID).Return(apperrors.ErrNotFound).Once()

	err := svc.MarkNotificationRead(context.Background(), notificationID, userID)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
