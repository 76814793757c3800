package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Upstream UpstreamConfig
	Search   SearchConfig
	Slot     SlotConfig
	Redis    RedisConfig
}

type UpstreamConfig struct {
	BaseURL string        `env:"UPSTREAM_BASE_URL, default=http://localhost:5000"`
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT,  default=10s"`
}

type SearchConfig struct {
	// QuietPeriod is the debounce interval for free-text search.
	QuietPeriod time.Duration `env:"SEARCH_QUIET_PERIOD, default=300ms"`
}

type SlotConfig struct {
	// Backend selects where the credential slot lives: "file" or "redis".
	Backend string `env:"TOKEN_STORE, default=file"`
	// File overrides the slot path; empty means
	// $HOME/.audiotheca/audiotheca.jwt.
	File string `env:"TOKEN_FILE"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
