package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type stubLimiter struct {
	allow      bool
	retryAfter time.Duration
	err        error
	discounted []string
}

func (l *stubLimiter) Allow(_ context.Context, _ string) (bool, time.Duration, error) {
	return l.allow, l.retryAfter, l.err
}

func (l *stubLimiter) Discount(_ context.Context, ip string) error {
	l.discounted = append(l.discounted, ip)
	return nil
}

func runLoginLimit(t *testing.T, limiter *stubLimiter, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := LoginRateLimit(limiter, zerolog.Nop())
	if err := mw(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestLoginRateLimit_AllowsWithinBudget(t *testing.T) {
	limiter := &stubLimiter{allow: true}

	called := false
	rec := runLoginLimit(t, limiter, func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(limiter.discounted) != 1 {
		t.Fatalf("successful login not discounted")
	}
}

func TestLoginRateLimit_RefusesWhenExhausted(t *testing.T) {
	limiter := &stubLimiter{allow: false, retryAfter: 10 * time.Minute}

	rec := runLoginLimit(t, limiter, func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] != false {
		t.Fatalf("expected success=false, got %v", resp["success"])
	}
	if resp["retry_after_ms"] != float64((10 * time.Minute).Milliseconds()) {
		t.Fatalf("unexpected retry_after_ms: %v", resp["retry_after_ms"])
	}
}

func TestLoginRateLimit_FailedLoginNotDiscounted(t *testing.T) {
	limiter := &stubLimiter{allow: true}

	rec := runLoginLimit(t, limiter, func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if len(limiter.discounted) != 0 {
		t.Fatalf("failed login was discounted")
	}
}

func TestLoginRateLimit_FailsOpenOnLimiterError(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("redis down")}

	called := false
	rec := runLoginLimit(t, limiter, func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("limiter outage must not block logins")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
