package persistent

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a shared-cache backend, grounded on
// noah-isme-sma-adp-api/pkg/cache/redis.go's client construction. Useful
// when several schedule-api replicas should share one persistent cache
// tier; spec.md's single-process non-goal still applies to the in-memory
// LRU above it.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an already-connected client with a key prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, blob []byte) error {
	return s.client.Set(ctx, s.prefix+key, blob, 0).Err()
}
