package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const requestIDPrefix = "upsale:request-id:"

// RequestIDStore pins one provider request id to each logical upsale so a
// retried browser request replays the same PayPal-Request-Id.
type RequestIDStore struct {
	client *redis.Client
}

func NewRequestIDStore(addr string) *RequestIDStore {
	return NewRequestIDStoreWithClient(redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     "",
		DB:           0,
		PoolSize:     100,
		MinIdleConns: 10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	}))
}

func NewRequestIDStoreWithClient(client *redis.Client) *RequestIDStore {
	return &RequestIDStore{client: client}
}

func (r *RequestIDStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("[cache] failed to ping Redis: %w", err)
	}
	return nil
}

func (r *RequestIDStore) Close() error {
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("[cache] failed to close Redis connection: %w", err)
	}
	return nil
}

// Reserve stores candidate under key unless a value already exists, and
// returns whichever value won.
func (r *RequestIDStore) Reserve(ctx context.Context, key, candidate string, ttl time.Duration) (string, error) {
	redisKey := requestIDPrefix + key
	stored, err := r.client.SetNX(ctx, redisKey, candidate, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("[cache] failed to reserve request id: %w", err)
	}
	if stored {
		return candidate, nil
	}

	existing, err := r.client.Get(ctx, redisKey).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		return r.Reserve(ctx, key, candidate, ttl)
	}
	if err != nil {
		return "", fmt.Errorf("[cache] failed to read request id: %w", err)
	}
	return existing, nil
}
