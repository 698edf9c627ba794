// Package config loads process configuration from the environment so main
// stays lean. Missing credentials are the only fatal startup condition.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures everything the bot needs from the environment.
type Config struct {
	// TelegramToken authenticates the bot against the Bot API.
	TelegramToken string `env:"TELEGRAM_TOKEN,required"`
	// OwnerID is the numeric identity seeded into the authorization set.
	OwnerID int64 `env:"OWNER_ID,required"`

	// RedisURL selects the Redis store backend when set.
	RedisURL string `env:"REDIS_URL"`
	// PostgresDSN selects the Postgres store backend when set and RedisURL
	// is not. With neither set the bot runs on the in-memory store.
	PostgresDSN string `env:"POSTGRES_DSN"`

	// Addr is the health/metrics listen address.
	Addr string `env:"ADDR" envDefault:":8000"`

	// PollTimeout is the long-poll window handed to the transport.
	PollTimeout time.Duration `env:"POLL_TIMEOUT" envDefault:"60s"`
	// PollBackoff is the fixed delay before re-entering a faulted poll loop.
	PollBackoff time.Duration `env:"POLL_BACKOFF" envDefault:"10s"`
	// MonitorInterval is the liveness monitor tick.
	MonitorInterval time.Duration `env:"MONITOR_INTERVAL" envDefault:"30s"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
