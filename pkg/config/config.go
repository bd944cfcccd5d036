package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDebug      = "debug"
	EnvProduction = "production"
)

// Config is the fully resolved process configuration, assembled once at
// startup from the environment (plus an optional .env file).
type Config struct {
	Env  string
	Host string
	Port int

	Postgres            PostgresConfig
	Redis               RedisConfig
	ScheduleCache        InMemoryCacheConfig
	ScheduleIDCache       InMemoryCacheConfig
	ScheduleSearchCache   InMemoryCacheConfig
	ScheduleShift         ShiftConfig
	Cooldown              CooldownConfig
	Upstream              UpstreamConfig
	Telegram              TelegramConfig
	VK                    VKConfig
	Log                   LogConfig
}

// RedisConfig is only consulted when SCHEDULE_CACHE_BACKEND=redis or
// SCHEDULE_COOLDOWN_BACKEND=redis selects one of the pluggable backends
// (internal/cache/persistent, internal/cache/cooldown); spec.md's default
// deployment needs neither.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DB       string
}

// InMemoryCacheConfig covers the three tunable in-memory caches (schedule,
// id resolver, search) which share the same capacity/max-hits/lifetime shape
// but default differently per spec.md §6.
type InMemoryCacheConfig struct {
	Capacity int
	MaxHits  int
	Lifetime time.Duration
	Dir      string // only meaningful for the schedule cache's disk tier
	Backend  string // "filesystem" (default), "bbolt", or "redis"; schedule cache only
}

type ShiftConfig struct {
	ConfigPath string
}

type CooldownConfig struct {
	Duration time.Duration
	Backend  string // "local" (default) or "redis"
}

type UpstreamConfig struct {
	BaseURL string
}

type TelegramConfig struct {
	AccessToken string
	WebhookURL  string
	Secret      string
}

type VKConfig struct {
	AccessToken      string
	ConfirmationCode string
	Secret           string
	GroupID          string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads the process configuration from the environment, applying the
// defaults documented in spec.md §6. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Host = v.GetString("HOST")
	cfg.Port = v.GetInt("PORT")

	cfg.Postgres = PostgresConfig{
		Host:     v.GetString("POSTGRES_HOST"),
		Port:     v.GetInt("POSTGRES_PORT"),
		User:     v.GetString("POSTGRES_USER"),
		Password: v.GetString("POSTGRES_PASSWORD"),
		DB:       v.GetString("POSTGRES_DB"),
	}
	if cfg.Postgres.DB == "" {
		cfg.Postgres.DB = cfg.Postgres.User
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.ScheduleCache = InMemoryCacheConfig{
		Capacity: v.GetInt("SCHEDULE_CACHE_CAPACITY"),
		MaxHits:  v.GetInt("SCHEDULE_CACHE_MAX_HITS"),
		Lifetime: parseHours(v.GetInt("SCHEDULE_CACHE_LIFETIME_HOURS")),
		Dir:      v.GetString("SCHEDULE_CACHE_DIR"),
		Backend:  v.GetString("SCHEDULE_CACHE_BACKEND"),
	}

	cfg.ScheduleIDCache = InMemoryCacheConfig{
		Capacity: v.GetInt("SCHEDULE_ID_CACHE_CAPACITY"),
		MaxHits:  v.GetInt("SCHEDULE_ID_CACHE_MAX_HITS"),
		Lifetime: parseHours(v.GetInt("SCHEDULE_ID_CACHE_LIFETIME_HOURS")),
	}

	cfg.ScheduleSearchCache = InMemoryCacheConfig{
		Capacity: v.GetInt("SCHEDULE_SEARCH_CACHE_CAPACITY"),
		Lifetime: parseMinutes(v.GetInt("SCHEDULE_SEARCH_CACHE_LIFETIME_MINUTES")),
	}

	cfg.ScheduleShift = ShiftConfig{
		ConfigPath: v.GetString("SCHEDULE_SHIFT_CONFIG_PATH"),
	}

	cfg.Cooldown = CooldownConfig{
		Duration: parseMinutes(v.GetInt("SCHEDULE_COOLDOWN_DURATION_MIN")),
		Backend:  v.GetString("SCHEDULE_COOLDOWN_BACKEND"),
	}

	cfg.Upstream = UpstreamConfig{
		BaseURL: v.GetString("APP_SCHEDULE_BASE_URL"),
	}

	cfg.Telegram = TelegramConfig{
		AccessToken: v.GetString("TELEGRAM_BOT_ACCESS_TOKEN"),
		WebhookURL:  v.GetString("TELEGRAM_BOT_WEBHOOK_URL"),
		Secret:      v.GetString("TELEGRAM_BOT_SECRET"),
	}

	cfg.VK = VKConfig{
		AccessToken:      v.GetString("VK_BOT_ACCESS_TOKEN"),
		ConfirmationCode: v.GetString("VK_BOT_CONFIRMATION_CODE"),
		Secret:           v.GetString("VK_BOT_SECRET"),
		GroupID:          v.GetString("VK_BOT_GROUP_ID"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDebug)
	v.SetDefault("HOST", "127.0.0.1")
	v.SetDefault("PORT", 8080)

	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_HOST", "postgres")
	v.SetDefault("POSTGRES_PORT", 5432)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SCHEDULE_CACHE_CAPACITY", 500)
	v.SetDefault("SCHEDULE_CACHE_MAX_HITS", 10)
	v.SetDefault("SCHEDULE_CACHE_LIFETIME_HOURS", 6)
	v.SetDefault("SCHEDULE_CACHE_DIR", "./cache")
	v.SetDefault("SCHEDULE_CACHE_BACKEND", "filesystem")

	v.SetDefault("SCHEDULE_ID_CACHE_CAPACITY", 3000)
	v.SetDefault("SCHEDULE_ID_CACHE_MAX_HITS", 10)
	v.SetDefault("SCHEDULE_ID_CACHE_LIFETIME_HOURS", 12)

	v.SetDefault("SCHEDULE_SEARCH_CACHE_CAPACITY", 3000)
	v.SetDefault("SCHEDULE_SEARCH_CACHE_LIFETIME_MINUTES", 5)

	v.SetDefault("SCHEDULE_SHIFT_CONFIG_PATH", "./schedule_shift.toml")
	v.SetDefault("SCHEDULE_COOLDOWN_DURATION_MIN", 1)
	v.SetDefault("SCHEDULE_COOLDOWN_BACKEND", "local")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseHours(h int) time.Duration {
	return time.Duration(h) * time.Hour
}

func parseMinutes(m int) time.Duration {
	return time.Duration(m) * time.Minute
}
