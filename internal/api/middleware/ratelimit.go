package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/paylink/payment-portal/internal/api/metrics"
)

// AttemptLimiter is the per-IP layer of the brute-force guard as seen by the
// transport layer. Implemented by redis.LoginLimiter.
type AttemptLimiter interface {
	Allow(ctx context.Context, ip string) (bool, time.Duration, error)
	Discount(ctx context.Context, ip string) error
}

type rateLimitedResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	RetryAfterMS int64  `json:"retry_after_ms"`
}

// LoginRateLimit guards login endpoints with the per-IP attempt limiter.
// A successful login (2xx) is discounted afterwards so only failures consume
// the budget. Limiter errors fail open: a Redis outage must not take down
// logins with it.
func LoginRateLimit(limiter AttemptLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			ctx := c.Request().Context()

			ok, retryAfter, err := limiter.Allow(ctx, ip)
			if err != nil {
				log.Warn().Err(err).Str("source_ip", ip).Msg("login limiter unavailable, allowing request")
				return next(c)
			}
			if !ok {
				metrics.LockoutsTotal.WithLabelValues("ip").Inc()
				metrics.LoginsTotal.WithLabelValues(kindForPath(c.Path()), "rate_limited").Inc()
				return c.JSON(http.StatusTooManyRequests, rateLimitedResponse{
					Message:      "too many login attempts, try again later",
					RetryAfterMS: retryAfter.Milliseconds(),
				})
			}

			if err := next(c); err != nil {
				return err
			}
			if c.Response().Status < 300 {
				if err := limiter.Discount(ctx, ip); err != nil {
					log.Warn().Err(err).Str("source_ip", ip).Msg("failed to discount successful login")
				}
			}
			return nil
		}
	}
}

func kindForPath(path string) string {
	if path == "/employee/login" {
		return "employee"
	}
	return "customer"
}
