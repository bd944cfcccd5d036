package persistent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpeix-go/schedule-backend/internal/cache/inmemory"
)

func TestFilesystemStore_PutThenGet(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFilesystemStore(dir)
	require.NoError(t, err)

	cache := New[string](store)
	ctx := context.Background()
	now := time.Date(2024, 1, 29, 12, 0, 0, 0, time.UTC)

	err = cache.Put(ctx, "2024/group A-01-22 [2024-01-29].cache", inmemory.Entry[string]{
		Value: "hello", CreatedAt: now, AccessedAt: now, Hits: 3,
	})
	require.NoError(t, err)

	entry, ok, err := cache.Get(ctx, "2024/group A-01-22 [2024-01-29].cache")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hello", entry.Value)
	assert.Equal(t, uint32(3), entry.Hits)
	assert.True(t, entry.CreatedAt.Equal(now))
}

func TestFilesystemStore_GetMissing(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFilesystemStore(dir)
	require.NoError(t, err)

	cache := New[string](store)
	_, ok, err := cache.Get(context.Background(), "nope.cache")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseLegacyTimestamp_TrimsTimezoneBracket(t *testing.T) {
	fallback := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	raw := "2023-05-01T10:00:00+03:00[Europe/Moscow]"
	got := parseLegacyTimestamp(raw, fallback)
	assert.Equal(t, 2023, got.Year())
	assert.Equal(t, time.Month(5), got.Month())
}

func TestParseLegacyTimestamp_MissingDefaultsToFallback(t *testing.T) {
	fallback := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	got := parseLegacyTimestamp("", fallback)
	assert.Equal(t, fallback, got)
}

func TestParseLegacyTimestamp_UnparseableDefaultsToFallback(t *testing.T) {
	fallback := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	got := parseLegacyTimestamp("not-a-date", fallback)
	assert.Equal(t, fallback, got)
}
