package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/ports"
)

// NotificationRepository is a testify mock of ports.NotificationRepository
type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) Create(ctx context.Context, notification *entities.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Notification, error) {
	args := m.Called(ctx, userID)
	if notifications, ok := args.Get(0).([]*entities.Notification); ok {
		return notifications, args.Error(1)
	}
	return nil, args.Error(1)
}

// RealtimePublisher is a testify mock of ports.RealtimePublisher
type RealtimePublisher struct {
	mock.Mock
}

func (m *RealtimePublisher) Publish(ctx context.Context, notification *entities.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

// Notifier is a testify mock of ports.Notifier
type Notifier struct {
	mock.Mock
}

func (m *Notifier) Notify(ctx context.Context, recipientID uuid.UUID, message string) (*entities.Notification, error) {
	args := m.Called(ctx, recipientID, message)
	if notification, ok := args.Get(0).(*entities.Notification); ok {
		return notification, args.Error(1)
	}
	return nil, args.Error(1)
}

var (
	_ ports.NotificationRepository = (*NotificationRepository)(nil)
	_ ports.RealtimePublisher      = (*RealtimePublisher)(nil)
	_ ports.Notifier               = (*Notifier)(nil)
)
