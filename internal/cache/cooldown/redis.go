package cooldown

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisMirror publishes cooldown activation to a shared Redis key so a
// horizontally scaled deployment's replicas agree on cooldown state. It
// does not replace Repository's own in-process flag (the fast path never
// leaves the process); it is consulted only when the local flag is
// inactive, to catch a cooldown activated by a sibling replica.
type RedisMirror struct {
	client   *redis.Client
	key      string
	duration time.Duration
}

// NewRedisMirror builds a mirror that keeps the cooldown flag under key in
// Redis, with duration as the key's TTL.
func NewRedisMirror(client *redis.Client, key string, duration time.Duration) *RedisMirror {
	return &RedisMirror{client: client, key: key, duration: duration}
}

// Activate sets the shared key with the cooldown duration as its TTL.
func (m *RedisMirror) Activate(ctx context.Context) error {
	return m.client.Set(ctx, m.key, "1", m.duration).Err()
}

// IsActive reports whether another replica's cooldown window is still
// live.
func (m *RedisMirror) IsActive(ctx context.Context) bool {
	n, err := m.client.Exists(ctx, m.key).Result()
	return err == nil && n > 0
}
