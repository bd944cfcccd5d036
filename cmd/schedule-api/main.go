// Command schedule-api runs the HTTP surface documented in spec.md §6:
// schedule lookup, search, id resolution, and the Telegram/VK bots. Wiring
// follows noah-isme-sma-adp-api's cmd/api-gateway/main.go (load config,
// build logger, construct repositories/services bottom-up, mount routes,
// serve) retargeted at this domain's three-tier cache and dialogue stack.
package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mpeix-go/schedule-backend/internal/bootstrap"
	"github.com/mpeix-go/schedule-backend/internal/cache/cooldown"
	"github.com/mpeix-go/schedule-backend/internal/cache/inmemory"
	"github.com/mpeix-go/schedule-backend/internal/cache/mediator"
	"github.com/mpeix-go/schedule-backend/internal/cache/persistent"
	"github.com/mpeix-go/schedule-backend/internal/calendar"
	"github.com/mpeix-go/schedule-backend/internal/dialogue"
	"github.com/mpeix-go/schedule-backend/internal/httpapi"
	"github.com/mpeix-go/schedule-backend/internal/middleware"
	"github.com/mpeix-go/schedule-backend/internal/schedule"
	"github.com/mpeix-go/schedule-backend/internal/schedule/idresolver"
	"github.com/mpeix-go/schedule-backend/internal/schedule/upstream"
	"github.com/mpeix-go/schedule-backend/internal/search"
	"github.com/mpeix-go/schedule-backend/internal/transport/outbox"
	"github.com/mpeix-go/schedule-backend/internal/transport/telegram"
	"github.com/mpeix-go/schedule-backend/internal/transport/vk"
	rediscache "github.com/mpeix-go/schedule-backend/pkg/cache"
	"github.com/mpeix-go/schedule-backend/pkg/config"
	"github.com/mpeix-go/schedule-backend/pkg/database"
	"github.com/mpeix-go/schedule-backend/pkg/jobs"
	"github.com/mpeix-go/schedule-backend/pkg/logger"
	corsmiddleware "github.com/mpeix-go/schedule-backend/pkg/middleware/cors"
	reqidmiddleware "github.com/mpeix-go/schedule-backend/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.New(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}
	defer log.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Postgres)
	if err != nil {
		log.Sugar().Fatalw("failed to init database", "error", err)
	}
	defer db.Close()

	shiftRepo := calendar.NewShiftRepository(cfg.ScheduleShift.ConfigPath)
	defer shiftRepo.Close()
	calendarEngine := calendar.NewEngine(shiftRepo)

	upstreamClient := upstream.New(upstream.Config{BaseURL: cfg.Upstream.BaseURL})

	scheduleStore, err := newScheduleStore(cfg, log)
	if err != nil {
		log.Sugar().Fatalw("failed to init schedule cache store", "error", err)
	}
	scheduleLRU := inmemory.New[schedule.Key, schedule.Schedule](cfg.ScheduleCache.Capacity, inmemory.Policy{
		MaxAgeCreation: cfg.ScheduleCache.Lifetime,
		MaxHits:        uint32(cfg.ScheduleCache.MaxHits),
	})
	scheduleCache := mediator.New(scheduleLRU, persistent.New[schedule.Schedule](scheduleStore), func(k schedule.Key) string { return k.String() })

	idResolver := idresolver.New(upstreamClient, cfg.ScheduleIDCache.Capacity, inmemory.Policy{
		MaxAgeCreation: cfg.ScheduleIDCache.Lifetime,
		MaxHits:        uint32(cfg.ScheduleIDCache.MaxHits),
	})

	cooldownRepo, err := newCooldown(cfg, log)
	if err != nil {
		log.Sugar().Fatalw("failed to init cooldown backend", "error", err)
	}

	scheduleService := &schedule.Service{
		Calendar:         calendarEngine,
		Cache:            scheduleCache,
		IDs:              idResolver,
		Upstream:         upstreamClient,
		Cooldown:         cooldownRepo,
		CooldownDuration: cfg.Cooldown.Duration,
	}

	searchRepo := search.NewRepository(db)
	searchService := search.NewService(searchRepo, upstreamClient, cfg.ScheduleSearchCache.Capacity, cfg.ScheduleSearchCache.Lifetime)

	peerRepo := dialogue.NewPeerRepository(db)
	dialogueService := &dialogue.Service{
		Peers:    peerRepo,
		Schedule: scheduleService,
		Search:   searchService,
	}

	ctx := context.Background()

	telegramClient := telegram.New(cfg.Telegram.AccessToken)
	telegramOutbox := outbox.NewTelegramOutbox(ctx, telegramClient, log, jobs.QueueConfig{Workers: 2})
	telegramHandler := &telegram.Handler{
		Secret:   cfg.Telegram.Secret,
		Dialogue: dialogueService,
		Sender:   telegramOutbox,
	}

	vkClient := vk.New(cfg.VK.AccessToken)
	vkOutbox := outbox.NewVKOutbox(ctx, vkClient, log, jobs.QueueConfig{Workers: 2})
	vkHandler := &vk.Handler{
		Secret:           cfg.VK.Secret,
		ConfirmationCode: cfg.VK.ConfirmationCode,
		Dialogue:         dialogueService,
		Sender:           vkOutbox,
	}

	if err := bootstrap.Run(ctx, log, bootstrap.Config{
		Tables:     []bootstrap.TableInitializer{searchRepo, peerRepo},
		Telegram:   telegramClient,
		WebhookURL: cfg.Telegram.WebhookURL,
	}); err != nil {
		log.Sugar().Fatalw("bootstrap failed", "error", err)
	}

	router := httpapi.NewRouter(&httpapi.Handler{
		Schedule:        scheduleService,
		IDs:             idResolver,
		Search:          searchService,
		TelegramWebhook: telegramHandler,
		TelegramSecret:  cfg.Telegram.Secret,
		VKCallback:      vkHandler,
	},
		reqidmiddleware.Middleware(),
		logger.GinMiddleware(log),
		corsmiddleware.New(nil),
		middleware.Metrics(),
	)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	log.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := router.Run(addr); err != nil {
		log.Sugar().Fatalw("server failed", "error", err)
	}
}

// newScheduleStore picks the schedule cache's persistent tier per
// cfg.ScheduleCache.Backend: a directory of individual JSON files (the
// default), a single bbolt database file for deployments that would rather
// avoid per-entry filesystem churn, or a shared Redis store for
// horizontally scaled deployments (SCHEDULE_CACHE_BACKEND=redis).
func newScheduleStore(cfg *config.Config, log *zap.Logger) (persistent.BlobStore, error) {
	switch cfg.ScheduleCache.Backend {
	case "redis":
		log.Sugar().Infow("schedule cache using redis backend", "host", cfg.Redis.Host)
		client, err := rediscache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return persistent.NewRedisStore(client, "schedule:"), nil
	case "bbolt":
		path := filepath.Join(cfg.ScheduleCache.Dir, "schedule.bbolt")
		log.Sugar().Infow("schedule cache using bbolt backend", "path", path)
		return persistent.NewBboltStore(path)
	default:
		return persistent.NewFilesystemStore(cfg.ScheduleCache.Dir)
	}
}

// newCooldown picks the upstream-outage cooldown backend per
// cfg.Cooldown.Backend: a process-local flag (the default, sufficient for
// a single replica), or a Redis-mirrored flag so every replica behind a
// load balancer agrees on an active cooldown (SCHEDULE_COOLDOWN_BACKEND=redis).
func newCooldown(cfg *config.Config, log *zap.Logger) (schedule.Cooldown, error) {
	local := cooldown.New(cfg.Cooldown.Duration)
	if cfg.Cooldown.Backend != "redis" {
		return local, nil
	}

	log.Sugar().Infow("cooldown using redis backend", "host", cfg.Redis.Host)
	client, err := rediscache.NewRedis(cfg.Redis)
	if err != nil {
		return nil, err
	}
	return &redisCooldown{
		local:  local,
		mirror: cooldown.NewRedisMirror(client, "schedule:cooldown", cfg.Cooldown.Duration),
	}, nil
}

// redisCooldown layers a cooldown.RedisMirror over a local
// cooldown.Repository so a cooldown activated by one replica is visible to
// its siblings without every replica needing a live Redis round trip on
// the fast path.
type redisCooldown struct {
	local  *cooldown.Repository
	mirror *cooldown.RedisMirror
}

func (c *redisCooldown) Activate() {
	c.local.Activate()
	_ = c.mirror.Activate(context.Background())
}

func (c *redisCooldown) IsActive() bool {
	return c.local.IsActive() || c.mirror.IsActive(context.Background())
}
