package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/ports"
)

type NotificationRepositoryImpl struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) ports.NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, notification *entities.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, message)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		notification.ID, notification.UserID, notification.Message,
	).Scan(&notification.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

// ListByUser returns a user's notifications, newest first.
func (r *NotificationRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Notification, error) {
	query := `
		SELECT id, user_id, message, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`

	notifications := []*entities.Notification{}
	if err := r.db.SelectContext(ctx, &notifications, query, userID); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return notifications, nil
}
