// Package bootstrap runs the one-time startup sequence the teacher's
// cmd/api-gateway/main.go performs inline: create any missing tables, then
// register the Telegram webhook. Grounded on
// original_source/crates/domain_schedule/src/usecases.rs
// (InitDomainScheduleUseCase::init) for the "tables then webhook, abort on
// failure" ordering.
package bootstrap

import (
	"context"

	"go.uber.org/zap"
)

// TableInitializer is satisfied by search.Repository and
// dialogue.PeerRepository: each owns its own CREATE TABLE IF NOT EXISTS
// statements.
type TableInitializer interface {
	Init(ctx context.Context) error
}

// WebhookRegistrar is satisfied by transport/telegram.Client.
type WebhookRegistrar interface {
	SetWebhook(ctx context.Context, webhookURL string) error
}

// Config controls what Run does; WebhookURL empty skips registration
// (useful for local development without a public endpoint).
type Config struct {
	Tables     []TableInitializer
	Telegram   WebhookRegistrar
	WebhookURL string
}

// Run executes the startup sequence. Any failure aborts: spec.md §7 treats
// startup-time failures (missing environment, unreachable database) as
// fatal, and a half-registered bot is worse than a bot that never started.
func Run(ctx context.Context, log *zap.Logger, cfg Config) error {
	for _, table := range cfg.Tables {
		if err := table.Init(ctx); err != nil {
			return err
		}
	}
	log.Info("bootstrap: tables ready")

	if cfg.Telegram != nil && cfg.WebhookURL != "" {
		if err := cfg.Telegram.SetWebhook(ctx, cfg.WebhookURL); err != nil {
			return err
		}
		log.Info("bootstrap: telegram webhook registered", zap.String("url", cfg.WebhookURL))
	}

	return nil
}
