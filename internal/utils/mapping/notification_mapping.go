package mapping

import (
	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/good4it/good4it_backend/internal/models"
)

// ToModelNotification converts a domain Notification to its model
func ToModelNotification(d domain.Notification) models.Notification {
	return models.Notification{
		NotificationID: d.NotificationID,
		RecipientID:    d.RecipientID,
		Event:          string(d.Event),
		Title:          d.Title,
		Body:           d.Body,
		Amount:         d.Amount,
		TransactionID:  d.TransactionID,
		RequestID:      d.RequestID,
		IsRead:         d.IsRead,
		CreatedAt:      d.CreatedAt,
	}
}

// ToDomainNotification converts a model Notification to its domain
func ToDomainNotification(m models.Notification) domain.Notification {
	return domain.Notification{
		NotificationID: m.NotificationID,
		RecipientID:    m.RecipientID,
		Event:          domain.NotificationEvent(m.Event),
		Title:          m.Title,
		Body:           m.Body,
		Amount:         m.Amount,
		TransactionID:  m.TransactionID,
		RequestID:      m.RequestID,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
}

// ToDomainNotificationSlice converts a slice of model Notifications
func ToDomainNotificationSlice(ms []models.Notification) []domain.Notification {
	ds := make([]domain.Notification, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainNotification(m)
	}
	return ds
}
