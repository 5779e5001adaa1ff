package pgsql

import (
	"context"
	"fmt"

	"github.com/good4it/good4it_backend/internal/apperrors"
	"github.com/good4it/good4it_backend/internal/core/domain"
	portsrepo "github.com/good4it/good4it_backend/internal/core/ports/repositories"
	"github.com/good4it/good4it_backend/internal/models"
	"github.com/good4it/good4it_backend/internal/utils/mapping"
	"github.com/good4it/good4it_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5/pgxpool"
)

const notificationColumns = `notification_id, recipient_id, event, title, body, amount, transaction_id, request_id, is_read, created_at`

type PgxNotificationRepository struct {
	BaseRepository
}

func newPgxNotificationRepository(db *pgxpool.Pool) portsrepo.NotificationRepositoryFacade {
	return &PgxNotificationRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.NotificationRepositoryFacade = (*PgxNotificationRepository)(nil)

func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, notification domain.Notification) error {
	m := mapping.ToModelNotification(notification)
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.NotificationID, m.RecipientID, m.Event, m.Title, m.Body, m.Amount, m.TransactionID, m.RequestID, m.IsRead, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

func (r *PgxNotificationRepository) MarkNotificationRead(ctx context.Context, notificationID string, recipientID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE notification_id = $1 AND recipient_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, notificationID, recipientID)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", notificationID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", notificationID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxNotificationRepository) ListNotificationsByRecipient(ctx context.Context, recipientID string, limit int, nextToken *string) ([]domain.Notification, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []any{recipientID}
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_id = $1`

	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, notification_id) < ($2, $3)`
		args = append(args, createdAt, id)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, notification_id DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	ms := []models.Notification{}
	for rows.Next() {
		var m models.Notification
		err := rows.Scan(&m.NotificationID, &m.RecipientID, &m.Event, &m.Title, &m.Body, &m.Amount, &m.TransactionID, &m.RequestID, &m.IsRead, &m.CreatedAt)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		ms = append(ms, m)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating notification rows: %w", rows.Err())
	}

	var token *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.NotificationID)
		token = &t
	}

	return mapping.ToDomainNotificationSlice(ms), token, nil
}
