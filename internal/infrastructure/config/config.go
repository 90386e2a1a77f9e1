package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string `env:"PORT,           default=8080"`
	Env           string `env:"ENV,            default=development"`
	LogLevel      string `env:"LOG_LEVEL,      default=info"`
	SessionSecret string `env:"SESSION_SECRET"`

	// SessionTTL is the absolute lifetime of a persisted session snapshot.
	SessionTTL time.Duration `env:"SESSION_TTL,    default=12h"`
	// IdleTimeout logs a session out after this long without user activity.
	IdleTimeout time.Duration `env:"IDLE_TIMEOUT,   default=5m"`
	// RefreshWindow bounds how stale an identity may be before it is
	// re-confirmed against the backend.
	RefreshWindow time.Duration `env:"SESSION_REFRESH_WINDOW, default=2m"`

	Backend BackendConfig
	Redis   RedisConfig
}

type BackendConfig struct {
	BaseURL string        `env:"BACKEND_URL,     default=https://api.vetcareservices.online/api"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger *slog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Error("Failed to load configuration", "error", err)
		panic(err)
	}
	return &cfg
}
