package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Storage string

const (
	StorageSQLite Storage = "sqlite"
	StorageRedis  Storage = "redis"
	StorageMemory Storage = "memory"
)

type Config struct {
	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel     slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	Storage      Storage       `env:"STORAGE" envDefault:"sqlite"`
	DBPath       string        `env:"DB_PATH" envDefault:"data/gruppenspiel.db"`
	RedisURL     string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisPrefix  string        `env:"REDIS_PREFIX" envDefault:"gruppenspiel:"`
	ContentDir   string        `env:"CONTENT_DIR"`
	SPADir       string        `env:"SPA_DIR" envDefault:"web/dist"`
	AdvanceDelay time.Duration `env:"ADVANCE_DELAY" envDefault:"500ms"`
	SaveTimeout  time.Duration `env:"SAVE_TIMEOUT" envDefault:"2s"`
}

// Load reads the environment, after filling it from a .env file in the
// working directory when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	switch cfg.Storage {
	case StorageSQLite, StorageRedis, StorageMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE %q", cfg.Storage)
	}
	if cfg.AdvanceDelay < 0 {
		return nil, fmt.Errorf("ADVANCE_DELAY must not be negative")
	}
	return &cfg, nil
}
