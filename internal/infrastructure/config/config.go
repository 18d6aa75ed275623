package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config profile names selected by HOMENOTES_CONFIG.
const (
	EnvDev        = "dev"
	EnvTest       = "test"
	EnvProduction = "production"
)

type Config struct {
	Port string `env:"PORT,             default=8080"`
	Env  string `env:"HOMENOTES_CONFIG, default=dev"`

	// SecretKey signs session tokens. Required outside of tests.
	SecretKey string `env:"SECRET_KEY"`

	// Admins is the administrator email allow-list, comma-space-delimited in
	// the environment (e.g. "root@example.com, ops@example.com").
	Admins []string `env:"HOMENOTES_ADMIN"`

	SessionTTL time.Duration `env:"SESSION_TTL, default=1h"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`

	Postgres PostgresConfig
	Redis    RedisConfig
}

type PostgresConfig struct {
	URL string `env:"DATABASE_URL, default=postgres://localhost:5432/homenotes?sslmode=disable"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=0"`
}

// Load reads configuration from the environment. The production profile
// first loads an override env file (secrets, database URL) pointed to by
// HOMENOTES_CONFIG_FILE; other profiles pick up a local .env when present.
func Load(ctx context.Context) (*Config, error) {
	if profile := envOrDefault("HOMENOTES_CONFIG", EnvDev); profile == EnvProduction {
		path := envOrDefault("HOMENOTES_CONFIG_FILE", "/etc/homenotes/production.env")
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("config: load production override %s: %w", path, err)
		}
	} else {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Admins = normalizeList(cfg.Admins)
	return &cfg, nil
}

// IsProduction reports whether the production profile is active.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func envOrDefault(key, fallback string) string {
	if v, ok := envconfig.OsLookuper().Lookup(key); ok && v != "" {
		return v
	}
	return fallback
}

// normalizeList trims the space in "a@x.com, b@y.com" style lists and drops
// empty entries.
func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
