package outbox

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mpeix-go/schedule-backend/pkg/jobs"
)

type stubTelegramSender struct {
	mu    sync.Mutex
	sends []int64
}

func (s *stubTelegramSender) SendMessage(_ context.Context, chatID int64, _ string, _ interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sends = append(s.sends, chatID)
	return nil
}

func (s *stubTelegramSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sends)
}

func TestTelegramOutbox_DispatchesAsynchronously(t *testing.T) {
	client := &stubTelegramSender{}
	outbox := NewTelegramOutbox(context.Background(), client, zap.NewNop(), jobs.QueueConfig{Workers: 1})

	err := outbox.SendMessage(context.Background(), 42, "hello", nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return client.count() == 1 }, time.Second, time.Millisecond)
}

type stubVKSender struct {
	mu    sync.Mutex
	peers []int64
}

func (s *stubVKSender) SendMessage(_ context.Context, _ string, peerID int64, _ url.Values) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.peers = append(s.peers, peerID)
	return nil
}

func (s *stubVKSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.peers)
}

func TestVKOutbox_DispatchesAsynchronously(t *testing.T) {
	client := &stubVKSender{}
	outbox := NewVKOutbox(context.Background(), client, zap.NewNop(), jobs.QueueConfig{Workers: 1})

	err := outbox.SendMessage(context.Background(), "hi", 7, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return client.count() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, int64(7), client.peers[0])
}
