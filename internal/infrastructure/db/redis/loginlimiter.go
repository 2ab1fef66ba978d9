package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultLoginWindow      = 15 * time.Minute
	defaultLoginMaxAttempts = 5
)

// LoginLimiter is the per-IP layer of the brute-force guard, backed by Redis.
// Each attempt increments a per-IP counter that expires with the window;
// successful logins are discounted afterwards so only failures accumulate.
// Key format: login_attempts:<ip>
type LoginLimiter struct {
	client      *redis.Client
	window      time.Duration
	maxAttempts int
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
// Non-positive window or maxAttempts fall back to the defaults
// (15 minutes, 5 attempts).
func NewLoginLimiter(client *redis.Client, window time.Duration, maxAttempts int) *LoginLimiter {
	if window <= 0 {
		window = defaultLoginWindow
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultLoginMaxAttempts
	}
	return &LoginLimiter{client: client, window: window, maxAttempts: maxAttempts}
}

// Allow counts one attempt for the IP and reports whether it is still within
// the window's budget. When the budget is exhausted the remaining window
// duration is returned as a retry-after hint.
func (l *LoginLimiter) Allow(ctx context.Context, ip string) (bool, time.Duration, error) {
	key := l.key(ip)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("login limiter incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, 0, fmt.Errorf("login limiter expire: %w", err)
		}
	}

	if count > int64(l.maxAttempts) {
		ttl, err := l.client.TTL(ctx, key).Result()
		if err != nil || ttl < 0 {
			ttl = l.window
		}
		return false, ttl, nil
	}
	return true, 0, nil
}

// Discount removes one attempt after a successful login so successes never
// count against the budget.
func (l *LoginLimiter) Discount(ctx context.Context, ip string) error {
	return l.client.Decr(ctx, l.key(ip)).Err()
}

func (l *LoginLimiter) key(ip string) string {
	return "login_attempts:" + ip
}
