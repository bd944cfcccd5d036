// Package persistent implements the on-disk (or bbolt/redis) opaque
// key→blob store described in spec.md §4.2, grounded in shape on
// noah-isme-sma-adp-api/pkg/storage/filesystem.go (Save/Open/resolve) and
// in semantics on
// original_source/common_persistent_cache/src/cache.rs.
package persistent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/mpeix-go/schedule-backend/internal/cache/inmemory"
	"github.com/mpeix-go/schedule-backend/pkg/apperrors"
)

// ErrNotFound is returned by a BlobStore when the key does not exist.
var ErrNotFound = errors.New("persistent cache: key not found")

// BlobStore is the storage-tier capability spec.md's design notes call a
// "tiered store": get/put on opaque byte blobs keyed by string. Each
// concrete backend (filesystem, bbolt, redis) implements it.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, blob []byte) error
}

// Cache is a generic persistent cache layered over a BlobStore, handling
// JSON (de)serialization of inmemory.Entry[V] and the backward-compatible
// timestamp parsing spec.md §9 documents.
type Cache[V any] struct {
	store BlobStore
}

// New wraps store as a typed persistent cache.
func New[V any](store BlobStore) *Cache[V] {
	return &Cache[V]{store: store}
}

// record is the on-disk JSON shape: { value, created_at, accessed_at, hits }.
type record[V any] struct {
	Value      V      `json:"value"`
	CreatedAt  string `json:"created_at"`
	AccessedAt string `json:"accessed_at"`
	Hits       uint32 `json:"hits"`
}

// Get loads the entry for key. It returns (entry, false, nil) when absent.
func (c *Cache[V]) Get(ctx context.Context, key string) (inmemory.Entry[V], bool, error) {
	blob, err := c.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return inmemory.Entry[V]{}, false, nil
	}
	if err != nil {
		return inmemory.Entry[V]{}, false, apperrors.NewInternal("read persistent cache entry", err)
	}

	var rec record[V]
	if err := json.Unmarshal(blob, &rec); err != nil {
		return inmemory.Entry[V]{}, false, apperrors.NewInternal("decode persistent cache entry", err)
	}

	now := time.Now()
	return inmemory.Entry[V]{
		Value:      rec.Value,
		CreatedAt:  parseLegacyTimestamp(rec.CreatedAt, now),
		AccessedAt: parseLegacyTimestamp(rec.AccessedAt, now),
		Hits:       rec.Hits,
	}, true, nil
}

// Put writes entry for key, creating any intermediate structure the
// backend needs.
func (c *Cache[V]) Put(ctx context.Context, key string, entry inmemory.Entry[V]) error {
	rec := record[V]{
		Value:      entry.Value,
		CreatedAt:  entry.CreatedAt.Format(time.RFC3339Nano),
		AccessedAt: entry.AccessedAt.Format(time.RFC3339Nano),
		Hits:       entry.Hits,
	}
	blob, err := json.Marshal(rec)
	if err != nil {
		return apperrors.NewInternal("encode persistent cache entry", err)
	}
	if err := c.store.Put(ctx, key, blob); err != nil {
		return apperrors.NewInternal("write persistent cache entry", err)
	}
	return nil
}

// parseLegacyTimestamp implements spec.md §9's backward-compatibility rule:
// older entries may carry a timezone-bracketed suffix (e.g.
// "...+0300[Europe/Moscow]"); trim at the first '[' before parsing. A
// missing or unparseable timestamp defaults to "now".
func parseLegacyTimestamp(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	if idx := strings.IndexByte(raw, '['); idx >= 0 {
		raw = raw[:idx]
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		// Legacy stamps write the offset without a colon ("+0300").
		t, err = time.Parse("2006-01-02T15:04:05.999999999Z0700", raw)
		if err != nil {
			return fallback
		}
	}
	return t
}
