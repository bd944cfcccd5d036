// Package outbox decouples a webhook's synchronous ack from the outbound
// reply's actual delivery: SendMessage enqueues the send and returns
// immediately, with pkg/jobs retrying transient failures in the
// background. A bot reply failing after the webhook has already returned
// "ok" cannot be surfaced to the platform anyway, so retrying out of band
// is strictly better than blocking the webhook on it.
package outbox

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/mpeix-go/schedule-backend/pkg/jobs"
)

// TelegramSender is the subset of telegram.Client this outbox wraps.
type TelegramSender interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard interface{}) error
}

// TelegramOutbox queues Telegram sends onto a jobs.Queue.
type TelegramOutbox struct {
	client TelegramSender
	queue  *jobs.Queue
}

type telegramSend struct {
	chatID   int64
	text     string
	keyboard interface{}
}

// NewTelegramOutbox builds and starts a queue dispatching sends to client.
func NewTelegramOutbox(ctx context.Context, client TelegramSender, log *zap.Logger, cfg jobs.QueueConfig) *TelegramOutbox {
	o := &TelegramOutbox{client: client}
	cfg.Logger = log
	o.queue = jobs.NewQueue("telegram-outbox", o.handle, cfg)
	o.queue.Start(ctx)
	return o
}

func (o *TelegramOutbox) handle(ctx context.Context, job jobs.Job) error {
	send := job.Payload.(telegramSend)
	return o.client.SendMessage(ctx, send.chatID, send.text, send.keyboard)
}

// SendMessage enqueues the send; it returns an enqueue error only (queue
// full, queue stopped), never a delivery error.
func (o *TelegramOutbox) SendMessage(_ context.Context, chatID int64, text string, keyboard interface{}) error {
	return o.queue.Enqueue(jobs.Job{
		Type:    "telegram_send",
		Payload: telegramSend{chatID: chatID, text: text, keyboard: keyboard},
	})
}

// VKSender is the subset of vk.Client this outbox wraps.
type VKSender interface {
	SendMessage(ctx context.Context, text string, peerID int64, additionalQuery url.Values) error
}

// VKOutbox queues VK sends onto a jobs.Queue.
type VKOutbox struct {
	client VKSender
	queue  *jobs.Queue
}

type vkSend struct {
	text            string
	peerID          int64
	additionalQuery url.Values
}

// NewVKOutbox builds and starts a queue dispatching sends to client.
func NewVKOutbox(ctx context.Context, client VKSender, log *zap.Logger, cfg jobs.QueueConfig) *VKOutbox {
	o := &VKOutbox{client: client}
	cfg.Logger = log
	o.queue = jobs.NewQueue("vk-outbox", o.handle, cfg)
	o.queue.Start(ctx)
	return o
}

func (o *VKOutbox) handle(ctx context.Context, job jobs.Job) error {
	send := job.Payload.(vkSend)
	return o.client.SendMessage(ctx, send.text, send.peerID, send.additionalQuery)
}

// SendMessage enqueues the send; it returns an enqueue error only, never a
// delivery error.
func (o *VKOutbox) SendMessage(_ context.Context, text string, peerID int64, additionalQuery url.Values) error {
	return o.queue.Enqueue(jobs.Job{
		Type:    "vk_send",
		Payload: vkSend{text: text, peerID: peerID, additionalQuery: additionalQuery},
	})
}
