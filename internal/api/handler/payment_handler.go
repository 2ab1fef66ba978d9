package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/paylink/payment-portal/internal/api/metrics"
	"github.com/paylink/payment-portal/internal/core/ports"
)

// PaymentHandler serves the customer-facing payment endpoints. Every route
// runs behind the customer session authenticator, so the principal id in
// context is always the owning customer.
type PaymentHandler struct {
	service ports.PaymentService
}

func NewPaymentHandler(service ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Create creates a new pending payment owned by the caller.
//
// @Summary      Create a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPaymentRequest  true  "Payment details"
// @Success      201   {object}  singlePaymentResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /payments [post]
func (h *PaymentHandler) Create(c echo.Context) error {
	customerID, err := principalID(c)
	if err != nil {
		return err
	}

	var req createPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must be a decimal number")
	}
	if !amount.IsPositive() {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must be greater than 0")
	}

	payment, err := h.service.Create(c.Request().Context(), ports.CreatePaymentInput{
		CustomerID:   customerID,
		Amount:       amount,
		Currency:     req.Currency,
		Provider:     req.Provider,
		PayeeAccount: req.PayeeAccount,
		SwiftCode:    req.SwiftCode,
	})
	if err != nil {
		return err
	}
	metrics.PaymentsCreatedTotal.WithLabelValues(payment.Currency).Inc()

	return c.JSON(http.StatusCreated, singlePaymentResponse{
		Success: true,
		Payment: toPaymentResponse(payment),
	})
}

// List returns the caller's own payments, newest first.
//
// @Summary      List own payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Success      200     {object}  listPaymentsResponse
// @Failure      401     {object}  errorResponse
// @Router       /payments [get]
func (h *PaymentHandler) List(c echo.Context) error {
	customerID, err := principalID(c)
	if err != nil {
		return err
	}

	payments, err := h.service.List(c.Request().Context(), ports.ListPaymentsInput{
		CustomerID: customerID,
		Status:     c.QueryParam("status"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listPaymentsResponse{
		Success:  true,
		Count:    len(payments),
		Payments: toPaymentResponses(payments),
	})
}

// Get returns one of the caller's payments. Payments owned by another
// customer yield 403, never 404, so existence is not hidden from its owner
// by a racing read.
//
// @Summary      Get one payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Payment id"
// @Success      200  {object}  singlePaymentResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /payments/{id} [get]
func (h *PaymentHandler) Get(c echo.Context) error {
	customerID, err := principalID(c)
	if err != nil {
		return err
	}

	payment, err := h.service.Get(c.Request().Context(), ports.GetPaymentInput{
		PaymentID:  c.Param("id"),
		CustomerID: customerID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, singlePaymentResponse{
		Success: true,
		Payment: toPaymentResponse(payment),
	})
}
