package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestQueue_EnqueueAssignsJobID(t *testing.T) {
	var mu sync.Mutex
	var seen []Job

	q := NewQueue("test", func(_ context.Context, job Job) error {
		mu.Lock()
		seen = append(seen, job)
		mu.Unlock()
		return nil
	}, QueueConfig{Workers: 1, Logger: zap.NewNop()})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{Type: "noop"}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.NotEmpty(t, seen[0].ID)
}

func TestQueue_RetriesUntilMaxRetriesThenGivesUp(t *testing.T) {
	var mu sync.Mutex
	attempts := 0

	q := NewQueue("test", func(_ context.Context, _ Job) error {
		mu.Lock()
		attempts++
		mu.Unlock()
		return errors.New("boom")
	}, QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: time.Millisecond, Logger: zap.NewNop()})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{Type: "fails"}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return attempts == 3
	}, time.Second, time.Millisecond)

	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, attempts)
}

func TestQueue_EnqueueBeforeStartFails(t *testing.T) {
	q := NewQueue("test", func(context.Context, Job) error { return nil }, QueueConfig{})
	err := q.Enqueue(Job{Type: "noop"})
	assert.Error(t, err)
}
