package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/infrastructure/logger"
	"github.com/taskmaster/taskhub/internal/ports"
)

// NotificationService stores notifications and pushes them to the
// real-time channel.
type NotificationService struct {
	notificationRepo ports.NotificationRepository
	publisher        ports.RealtimePublisher
	logger           *logger.Logger
}

func NewNotificationService(notificationRepo ports.NotificationRepository, publisher ports.RealtimePublisher, logger *logger.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		publisher:        publisher,
		logger:           logger.WithComponent("notifications"),
	}
}

// Notify persists the notification, then publishes it. Only the persisted
// write can fail the call.
func (s *NotificationService) Notify(ctx context.Context, recipientID uuid.UUID, message string) (*entities.Notification, error) {
	notification := &entities.Notification{
		ID:      uuid.New(),
		UserID:  recipientID,
		Message: message,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to store notification: %w", err)
	}

	if err := s.publisher.Publish(ctx, notification); err != nil {
		s.logger.Warnw("Failed to publish notification",
			"notification_id", notification.ID,
			"user_id", recipientID,
			"error", err,
		)
	}

	return notification, nil
}
