package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"structiv/internal/config"
	"structiv/internal/models"

	"github.com/redis/go-redis/v9"
)

const inboxKeyPrefix = "structiv:inbox:"

type RedisNotificationRepository struct {
	client *redis.Client
	size   int
	ttl    time.Duration
}

// NewRedisClient builds a Redis client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisNotificationRepository(client *redis.Client, size int, ttl time.Duration) *RedisNotificationRepository {
	if size <= 0 {
		size = models.DefaultInboxSize
	}
	return &RedisNotificationRepository{
		client: client,
		size:   size,
		ttl:    ttl,
	}
}

func inboxKey(recipient string) string {
	return inboxKeyPrefix + recipient
}

// Push prepends the notification and trims the inbox to its capacity.
func (r *RedisNotificationRepository) Push(ctx context.Context, n *models.Notification) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	key := inboxKey(n.Recipient)
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(r.size-1))
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push notification to redis: %w", err)
	}
	return nil
}

func (r *RedisNotificationRepository) List(ctx context.Context, recipient string) ([]*models.Notification, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	values, err := r.client.LRange(ctx, inboxKey(recipient), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications from redis: %w", err)
	}

	out := make([]*models.Notification, 0, len(values))
	for _, v := range values {
		var n models.Notification
		if err := json.Unmarshal([]byte(v), &n); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notification: %w", err)
		}
		out = append(out, &n)
	}
	return out, nil
}

func (r *RedisNotificationRepository) Clear(ctx context.Context, recipient string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, inboxKey(recipient)).Err(); err != nil {
		return fmt.Errorf("failed to clear notifications in redis: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
