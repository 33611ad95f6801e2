package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const deliveryKeyPrefix = "relay:webhook:delivery:"

type redisDeliveryStore struct {
	client *redis.Client
	ttl    time.Duration
}

func newRedisDeliveryStore(client *redis.Client, ttl time.Duration) DeliveryStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisDeliveryStore{client: client, ttl: ttl}
}

// NewRedisDeliveryStore returns a DeliveryStore backed by SET NX with a TTL.
func NewRedisDeliveryStore(client *redis.Client, ttl time.Duration) DeliveryStore {
	return newRedisDeliveryStore(client, ttl)
}

func (s *redisDeliveryStore) Claim(ctx context.Context, deliveryID string) (bool, error) {
	if deliveryID == "" {
		return true, nil
	}
	ok, err := s.client.SetNX(ctx, deliveryKeyPrefix+deliveryID, time.Now().UTC().Format(time.RFC3339), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claiming delivery %s: %w", deliveryID, err)
	}
	return ok, nil
}

func (s *redisDeliveryStore) Release(ctx context.Context, deliveryID string) error {
	if deliveryID == "" {
		return nil
	}
	if err := s.client.Del(ctx, deliveryKeyPrefix+deliveryID).Err(); err != nil {
		return fmt.Errorf("releasing delivery %s: %w", deliveryID, err)
	}
	return nil
}

type noopDeliveryStore struct{}

func (noopDeliveryStore) Claim(context.Context, string) (bool, error) {
	return true, nil
}

func (noopDeliveryStore) Release(context.Context, string) error {
	return nil
}
