package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/infrastructure/logger"
	"github.com/taskmaster/taskhub/internal/mocks"
)

func TestNotificationService_Notify(t *testing.T) {
	recipient := uuid.New()
	matches := mock.MatchedBy(func(n *entities.Notification) bool {
		return n.UserID == recipient && n.Message == "hello"
	})

	t.Run("stores then publishes", func(t *testing.T) {
		repo := &mocks.NotificationRepository{}
		publisher := &mocks.RealtimePublisher{}
		repo.On("Create", mock.Anything, matches).Return(nil).Once()
		publisher.On("Publish", mock.Anything, matches).Return(nil).Once()

		svc := NewNotificationService(repo, publisher, logger.NewNop())
		n, err := svc.Notify(context.Background(), recipient, "hello")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, n.ID)

		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("publish failure is not an error", func(t *testing.T) {
		repo := &mocks.NotificationRepository{}
		publisher := &mocks.RealtimePublisher{}
		repo.On("Create", mock.Anything, matches).Return(nil)
		publisher.On("Publish", mock.Anything, matches).Return(errors.New("redis gone"))

		svc := NewNotificationService(repo, publisher, logger.NewNop())
		n, err := svc.Notify(context.Background(), recipient, "hello")
		require.NoError(t, err)
		assert.Equal(t, "hello", n.Message)
	})

	t.Run("store failure skips publish", func(t *testing.T) {
		repo := &mocks.NotificationRepository{}
		publisher := &mocks.RealtimePublisher{}
		repo.On("Create", mock.Anything, matches).Return(errors.New("db gone"))

		svc := NewNotificationService(repo, publisher, logger.NewNop())
		_, err := svc.Notify(context.Background(), recipient, "hello")
		assert.Error(t, err)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}
