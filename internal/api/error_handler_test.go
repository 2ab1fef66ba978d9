package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/paylink/payment-portal/internal/core/domain"
)

func renderError(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec, body
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrValidationFailed, http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrPaymentNotFound, http.StatusNotFound},
		{domain.ErrCustomerExists, http.StatusConflict},
		{domain.ErrInvalidTransition, http.StatusBadRequest},
		{domain.ErrNothingToSubmit, http.StatusBadRequest},
		{domain.ErrRateLimited, http.StatusTooManyRequests},
	}

	for _, tc := range cases {
		rec, body := renderError(t, tc.err)
		if rec.Code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		if body["success"] != false {
			t.Errorf("%v: expected success=false, got %v", tc.err, body["success"])
		}
	}
}

func TestErrorHandler_WrappedErrorsStillMap(t *testing.T) {
	wrapped := fmt.Errorf("%w (from verified to verified)", domain.ErrInvalidTransition)
	rec, _ := renderError(t, wrapped)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for wrapped transition error, got %d", rec.Code)
	}
}

func TestErrorHandler_LockoutCarriesRetryAfter(t *testing.T) {
	rec, body := renderError(t, &domain.LockoutError{RetryAfter: 5 * time.Minute})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if body["retry_after_ms"] != float64((5 * time.Minute).Milliseconds()) {
		t.Fatalf("unexpected retry_after_ms: %v", body["retry_after_ms"])
	}
}

func TestErrorHandler_UnexpectedErrorIsGeneric(t *testing.T) {
	rec, body := renderError(t, errors.New("mongo: socket was unexpectedly closed"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body["message"] != "internal server error" {
		t.Fatalf("internal detail leaked: %v", body["message"])
	}
}

func TestErrorHandler_EchoHTTPErrorPassesThrough(t *testing.T) {
	rec, body := renderError(t, echo.NewHTTPError(http.StatusBadRequest, "amount is required"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body["message"] != "amount is required" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}
