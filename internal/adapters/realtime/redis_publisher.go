package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/taskmaster/taskhub/internal/domain/entities"
	"github.com/taskmaster/taskhub/internal/infrastructure/config"
	"github.com/taskmaster/taskhub/internal/ports"
)

// message is the payload subscribers receive on a user's channel.
type message struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

// RedisPublisher fans notifications out over Redis pub/sub, one channel per
// recipient: "<prefix>:<userId>".
type RedisPublisher struct {
	client *redis.Client
	prefix string
}

// NewRedisClient builds a client from cfg and checks it with a PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func NewRedisPublisher(client *redis.Client, prefix string) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix}
}

// Channel returns the pub/sub channel for a recipient.
func (p *RedisPublisher) Channel(userID string) string {
	return p.prefix + ":" + userID
}

func (p *RedisPublisher) Publish(ctx context.Context, n *entities.Notification) error {
	payload, err := json.Marshal(message{
		ID:        n.ID.String(),
		UserID:    n.UserID.String(),
		Message:   n.Message,
		CreatedAt: n.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	if err := p.client.Publish(ctx, p.Channel(n.UserID.String()), payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	return nil
}

// NoopPublisher is used when the real-time channel is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *entities.Notification) error { return nil }

var (
	_ ports.RealtimePublisher = (*RedisPublisher)(nil)
	_ ports.RealtimePublisher = NoopPublisher{}
)
