package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"agrischeme-api-go/internal/config"
)

// RedisPrefix namespaces every key this service writes to Redis.
const RedisPrefix = "agrischeme:"

// redisKey returns the namespaced Redis key for a cache slot.
func redisKey(key string) string {
	return RedisPrefix + "cache:" + key
}

// RedisStore is the shared cache backend for deployments where several
// instances should serve the same last-known-good batch.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed store with connection pool settings
// from configuration.
func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.PoolSize = cfg.RedisPoolSize
	opt.MinIdleConns = cfg.RedisMinIdleConn
	opt.MaxRetries = cfg.RedisMaxRetries
	opt.DialTimeout = cfg.RedisDialTimeout

	return &RedisStore{
		client: redis.NewClient(opt),
	}, nil
}

// Save overwrites the payload under the given key. No expiry — staleness
// is unbounded by design.
func (s *RedisStore) Save(ctx context.Context, key string, payload []byte) error {
	return s.client.Set(ctx, redisKey(key), payload, 0).Err()
}

// Load reads the payload stored under the given key.
func (s *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	payload, err := s.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Clear deletes the entry under the given key.
func (s *RedisStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, redisKey(key)).Err()
}

// Ping performs a health check on the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
