package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/paylink/payment-portal/internal/api/metrics"
	"github.com/paylink/payment-portal/internal/core/ports"
)

// AuthHandler serves the customer credential endpoints.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new customer account and logs it in.
//
// @Summary      Register a new customer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  customerAuthResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tkn, customer, err := h.authService.RegisterCustomer(c.Request().Context(), ports.RegisterCustomerInput{
		FullName:      req.FullName,
		IDNumber:      req.IDNumber,
		AccountNumber: req.AccountNumber,
		Username:      req.Username,
		Password:      req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, customerAuthResponse{
		Success:  true,
		Token:    tkn,
		Customer: toCustomerResponse(customer),
	})
}

// Login authenticates a customer with username, account number and password.
//
// @Summary      Customer login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      customerLoginRequest  true  "Login credentials"
// @Success      200   {object}  customerAuthResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req customerLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tkn, customer, err := h.authService.LoginCustomer(c.Request().Context(), ports.CustomerLoginInput{
		Username:      req.Username,
		AccountNumber: req.AccountNumber,
		Password:      req.Password,
		SourceIP:      c.RealIP(),
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("customer", loginResult(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("customer", "success").Inc()

	return c.JSON(http.StatusOK, customerAuthResponse{
		Success:  true,
		Token:    tkn,
		Customer: toCustomerResponse(customer),
	})
}

// Me returns the authenticated customer's profile.
//
// @Summary      Current customer profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  customerProfileResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := principalID(c)
	if err != nil {
		return err
	}

	customer, err := h.authService.GetCustomer(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, customerProfileResponse{
		Success:  true,
		Customer: toCustomerResponse(customer),
	})
}
