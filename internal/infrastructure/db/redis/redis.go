package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/paylink/payment-portal/internal/infrastructure/config"
)

const dialTimeout = 5 * time.Second

// Connect dials the Redis instance backing the per-IP login limiter and
// verifies it with a ping. The limiter itself fails open at request time, but
// startup still refuses an unreachable Redis: a portal deployed without its
// brute-force counter is a misconfiguration, not a degradation to ride
// through.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
