package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/paylink/payment-portal/internal/core/domain"
	"github.com/paylink/payment-portal/internal/core/ports"
	"github.com/paylink/payment-portal/internal/token"
)

// Context keys set by the session authenticators.
const (
	CtxPrincipalID   = "principal_id"
	CtxPrincipalKind = "principal_kind"
	CtxRole          = "role"
)

// CustomerAuth authenticates customer requests: bearer token, kind check,
// then a live store lookup. Every failure mode yields the same 401 so callers
// cannot distinguish a bad token from a vanished account; the real cause is
// logged instead.
func CustomerAuth(issuer *token.Issuer, customers ports.CustomerRepository, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := verifyBearer(c, issuer)
			if err != nil {
				return reject(c, log, err, "token verification failed")
			}
			if claims.Kind != domain.KindCustomer {
				return reject(c, log, nil, "token kind is not customer")
			}

			customer, err := customers.FindByID(c.Request().Context(), claims.Subject)
			if err != nil {
				return reject(c, log, err, "customer lookup failed")
			}

			c.Set(CtxPrincipalID, customer.ID)
			c.Set(CtxPrincipalKind, string(domain.KindCustomer))
			return next(c)
		}
	}
}

// EmployeeAuth authenticates employee requests. Deactivated employees fail
// authentication exactly like unknown ones, taking effect on their next
// request regardless of token expiry.
func EmployeeAuth(issuer *token.Issuer, employees ports.EmployeeRepository, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := verifyBearer(c, issuer)
			if err != nil {
				return reject(c, log, err, "token verification failed")
			}
			if claims.Kind != domain.KindEmployee {
				return reject(c, log, nil, "token kind is not employee")
			}

			employee, err := employees.FindByID(c.Request().Context(), claims.Subject)
			if err != nil {
				return reject(c, log, err, "employee lookup failed")
			}
			if !employee.Active {
				return reject(c, log, nil, "employee is deactivated")
			}

			c.Set(CtxPrincipalID, employee.ID)
			c.Set(CtxPrincipalKind, string(domain.KindEmployee))
			c.Set(CtxRole, employee.Role)
			return next(c)
		}
	}
}

func verifyBearer(c echo.Context, issuer *token.Issuer) (*token.Claims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, token.ErrMalformed
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, token.ErrMalformed
	}
	return issuer.Verify(parts[1])
}

// reject renders the uniform 401. The detail goes to the log only.
func reject(c echo.Context, log zerolog.Logger, err error, reason string) error {
	log.Debug().Err(err).
		Str("path", c.Path()).
		Str("reason", reason).
		Msg("request authentication refused")
	return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
}
