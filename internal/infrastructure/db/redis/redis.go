// Package redis owns the connection backing the session store.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Config carries the connection settings for the session store's Redis.
type Config struct {
	Addr     string
	Password string
	DB       int
	// PoolSize bounds the connection pool. Zero keeps the client default,
	// which is plenty for the session lookup traffic this service generates.
	PoolSize int
	// PingTimeout bounds the startup connectivity check.
	PingTimeout time.Duration
}

// Connect builds the Redis client and pings it so a wrong address or
// password is caught at startup, before the first session is issued.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = pingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Addr, err)
	}

	return client, nil
}
