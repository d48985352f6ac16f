package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/infrastructure/config"
	"github.com/taskmaster/taskhub/internal/mocks"
)

func redisConfig(t *testing.T, mr *miniredis.Miniredis) config.RedisConfig {
	t.Helper()

	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	return config.RedisConfig{
		Enabled:       true,
		Host:          mr.Host(),
		Port:          port,
		ChannelPrefix: "notifications",
	}
}

func TestRedisPublisher_Publish(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := NewRedisClient(ctx, redisConfig(t, mr))
	require.NoError(t, err)
	defer client.Close()

	publisher := NewRedisPublisher(client, "notifications")
	n := &entities.Notification{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Message:   `You have been assigned to task "Write report"`,
		CreatedAt: time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	channel := publisher.Channel(n.UserID.String())
	assert.Equal(t, "notifications:"+n.UserID.String(), channel)

	sub := client.Subscribe(ctx, channel)
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, publisher.Publish(ctx, n))

	select {
	case msg := <-sub.Channel():
		var got map[string]string
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, n.ID.String(), got["id"])
		assert.Equal(t, n.UserID.String(), got["userId"])
		assert.Equal(t, n.Message, got["message"])
		assert.Equal(t, "2030-01-01T12:00:00.000Z", got["createdAt"])
	case <-ctx.Done():
		t.Fatal("notification was not delivered")
	}
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := redisConfig(t, mr)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisClient(ctx, cfg)
	assert.Error(t, err)
}

func TestRedisPublisher_ClosedClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, client.Close())

	err := NewRedisPublisher(client, "notifications").Publish(context.Background(), &entities.Notification{ID: uuid.New(), UserID: uuid.New()})
	assert.Error(t, err)
}

func TestWithMetrics(t *testing.T) {
	counter := NewNotificationsCounter()
	next := &mocks.RealtimePublisher{}
	next.On("Publish", mock.Anything, mock.Anything).Return(nil).Twice()
	next.On("Publish", mock.Anything, mock.Anything).Return(errors.New("down")).Once()

	publisher := WithMetrics(next, counter)
	n := &entities.Notification{ID: uuid.New(), UserID: uuid.New()}

	require.NoError(t, publisher.Publish(context.Background(), n))
	require.NoError(t, publisher.Publish(context.Background(), n))
	assert.Error(t, publisher.Publish(context.Background(), n))

	assert.Equal(t, float64(2), testutil.ToFloat64(counter.WithLabelValues(OutcomePublished)))
	assert.Equal(t, float64(1), testutil.ToFloat64(counter.WithLabelValues(OutcomeFailed)))
	next.AssertExpectations(t)
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), &entities.Notification{}))
}
