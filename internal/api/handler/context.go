package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/paylink/payment-portal/internal/api/middleware"
)

// principalID extracts the authenticated principal id injected by the session
// authenticator. Its presence proves the middleware ran; a handler reached
// without it is a wiring bug and fails closed with 401.
func principalID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.CtxPrincipalID).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, nil
}
