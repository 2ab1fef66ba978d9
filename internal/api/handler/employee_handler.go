package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/paylink/payment-portal/internal/api/metrics"
	"github.com/paylink/payment-portal/internal/core/domain"
	"github.com/paylink/payment-portal/internal/core/ports"
)

// EmployeeHandler serves the employee credential endpoints. Employee accounts
// are provisioned out-of-band; there is no registration route.
type EmployeeHandler struct {
	authService ports.AuthService
}

func NewEmployeeHandler(authService ports.AuthService) *EmployeeHandler {
	return &EmployeeHandler{authService: authService}
}

// Login authenticates an employee with staff code, email and password.
//
// @Summary      Employee login
// @Tags         employee
// @Accept       json
// @Produce      json
// @Param        body  body      employeeLoginRequest  true  "Login credentials"
// @Success      200   {object}  employeeAuthResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /employee/login [post]
func (h *EmployeeHandler) Login(c echo.Context) error {
	var req employeeLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tkn, employee, err := h.authService.LoginEmployee(c.Request().Context(), ports.EmployeeLoginInput{
		EmployeeCode: req.EmployeeCode,
		Email:        req.Email,
		Password:     req.Password,
		SourceIP:     c.RealIP(),
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("employee", loginResult(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("employee", "success").Inc()

	return c.JSON(http.StatusOK, employeeAuthResponse{
		Success:  true,
		Token:    tkn,
		Employee: toEmployeeResponse(employee),
	})
}

// Me returns the authenticated employee's profile.
//
// @Summary      Current employee profile
// @Tags         employee
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  employeeProfileResponse
// @Failure      401  {object}  errorResponse
// @Router       /employee/me [get]
func (h *EmployeeHandler) Me(c echo.Context) error {
	id, err := principalID(c)
	if err != nil {
		return err
	}

	employee, err := h.authService.GetEmployee(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, employeeProfileResponse{
		Success:  true,
		Employee: toEmployeeResponse(employee),
	})
}

// Deactivate disables a staff account. Admin only; the change takes effect
// on the target's next request even if their token is still valid.
//
// @Summary      Deactivate an employee
// @Tags         employee
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Employee id"
// @Success      200  {object}  employeeProfileResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /employee/staff/{id}/deactivate [put]
func (h *EmployeeHandler) Deactivate(c echo.Context) error {
	return h.setActive(c, false)
}

// Reactivate re-enables a previously deactivated staff account. Admin only.
//
// @Summary      Reactivate an employee
// @Tags         employee
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Employee id"
// @Success      200  {object}  employeeProfileResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /employee/staff/{id}/activate [put]
func (h *EmployeeHandler) Reactivate(c echo.Context) error {
	return h.setActive(c, true)
}

func (h *EmployeeHandler) setActive(c echo.Context, active bool) error {
	actorID, err := principalID(c)
	if err != nil {
		return err
	}

	employee, err := h.authService.SetEmployeeActive(c.Request().Context(), actorID, c.Param("id"), active)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, employeeProfileResponse{
		Success:  true,
		Employee: toEmployeeResponse(employee),
	})
}

// loginResult maps an authentication error to a metric label.
func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountLocked):
		metrics.LockoutsTotal.WithLabelValues("identifier").Inc()
		return "locked"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	default:
		return "failure"
	}
}
