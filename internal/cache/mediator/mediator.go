// Package mediator implements the CacheMediator from spec.md §4.3,
// coordinating an internal/cache/inmemory.Cache and an
// internal/cache/persistent.Cache as one logical tier with promote-on-miss
// and demote-on-evict semantics. Grounded on
// original_source/domain_schedule/src/sources/mediator.rs.
package mediator

import (
	"context"
	"sync"
	"time"

	"github.com/mpeix-go/schedule-backend/internal/cache/inmemory"
	"github.com/mpeix-go/schedule-backend/internal/cache/persistent"
)

// Mediator presents an inmemory.Cache[K,V] and a persistent.Cache[V] as a
// single tiered store. K must render to a stable, path-safe string via
// KeyString — the persistent tier's storage key.
type Mediator[K comparable, V any] struct {
	mu        sync.Mutex
	lru       *inmemory.Cache[K, V]
	store     *persistent.Cache[V]
	KeyString func(K) string
}

// New builds a Mediator over an existing LRU and persistent cache pair.
func New[K comparable, V any](lru *inmemory.Cache[K, V], store *persistent.Cache[V], keyString func(K) string) *Mediator[K, V] {
	return &Mediator[K, V]{lru: lru, store: store, KeyString: keyString}
}

// Get returns the value for key, promoting it from persistent storage into
// the LRU on a cold miss. It returns the value if present and either not
// expired or allowStale is true.
func (m *Mediator[K, V]) Get(ctx context.Context, key K, allowStale bool) (V, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.lru.Contains(key) {
		if err := m.restoreFromPersistent(ctx, key); err != nil {
			var zero V
			return zero, false, err
		}
	}

	if value, expired, ok := m.lru.Peek(key); ok {
		if !expired || allowStale {
			return value, true, nil
		}
	}

	var zero V
	return zero, false, nil
}

func (m *Mediator[K, V]) restoreFromPersistent(ctx context.Context, key K) error {
	entry, ok, err := m.store.Get(ctx, m.KeyString(key))
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return m.pushToLRU(ctx, key, entry)
}

func (m *Mediator[K, V]) pushToLRU(ctx context.Context, key K, entry inmemory.Entry[V]) error {
	evictedKey, evictedEntry, evicted := m.lru.InsertEntry(key, entry)
	if !evicted {
		return nil
	}
	// A same-key replacement must be ignored here; only a genuine eviction
	// of a *different* key is written back (spec.md §4.3).
	if evictedKey == key {
		return nil
	}
	return m.store.Put(ctx, m.KeyString(evictedKey), evictedEntry)
}

// Insert writes value through to persistent storage, then into the LRU. If
// this evicts a different key, that entry is demoted back to persistent
// storage with its updated access metadata.
func (m *Mediator[K, V]) Insert(ctx context.Context, key K, value V) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	entry := inmemory.Entry[V]{Value: value, CreatedAt: now, AccessedAt: now}

	if err := m.store.Put(ctx, m.KeyString(key), entry); err != nil {
		return err
	}
	return m.pushToLRU(ctx, key, entry)
}
