package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/paylink/payment-portal/internal/api/metrics"
	"github.com/paylink/payment-portal/internal/core/domain"
	"github.com/paylink/payment-portal/internal/core/ports"
)

// ReviewHandler serves the employee review surface: listing, verification,
// rejection, batch settlement and statistics. Every route runs behind the
// employee session authenticator.
type ReviewHandler struct {
	payments ports.PaymentService
	reports  ports.ReportService
}

func NewReviewHandler(payments ports.PaymentService, reports ports.ReportService) *ReviewHandler {
	return &ReviewHandler{payments: payments, reports: reports}
}

// List returns payments across all customers, optionally filtered by status.
//
// @Summary      List all payments
// @Tags         review
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Success      200     {object}  listPaymentsResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Router       /employee/payments [get]
func (h *ReviewHandler) List(c echo.Context) error {
	payments, err := h.payments.List(c.Request().Context(), ports.ListPaymentsInput{
		Status: c.QueryParam("status"),
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

// ListPending returns the review queue: payments awaiting a decision.
//
// @Summary      List pending payments
// @Tags         review
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listPaymentsResponse
// @Failure      401  {object}  errorResponse
// @Router       /employee/payments/pending [get]
func (h *ReviewHandler) ListPending(c echo.Context) error {
	payments, err := h.payments.List(c.Request().Context(), ports.ListPaymentsInput{
		Status: string(domain.StatusPending),
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

// Verify approves a pending payment.
//
// @Summary      Verify a payment
// @Tags         review
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Payment id"
// @Success      200  {object}  singlePaymentResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /employee/payments/{id}/verify [put]
func (h *ReviewHandler) Verify(c echo.Context) error {
	employeeID, err := principalID(c)
	if err != nil {
		return err
	}

	payment, err := h.payments.Verify(c.Request().Context(), c.Param("id"), employeeID)
	if err != nil {
		return err
	}
	metrics.TransitionsTotal.WithLabelValues(string(domain.StatusVerified)).Inc()

	return c.JSON(http.StatusOK, singlePaymentResponse{
		Success: true,
		Payment: toPaymentResponse(payment),
	})
}

// Reject declines a pending payment with a mandatory reason.
//
// @Summary      Reject a payment
// @Tags         review
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Payment id"
// @Param        body  body      rejectPaymentRequest  true  "Rejection reason"
// @Success      200   {object}  singlePaymentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /employee/payments/{id}/reject [put]
func (h *ReviewHandler) Reject(c echo.Context) error {
	employeeID, err := principalID(c)
	if err != nil {
		return err
	}

	var req rejectPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	payment, err := h.payments.Reject(c.Request().Context(), c.Param("id"), employeeID, req.Reason)
	if err != nil {
		return err
	}
	metrics.TransitionsTotal.WithLabelValues(string(domain.StatusRejected)).Inc()

	return c.JSON(http.StatusOK, singlePaymentResponse{
		Success: true,
		Payment: toPaymentResponse(payment),
	})
}

// SubmitBatch settles a batch of verified payments atomically. Ids that are
// missing or not verified are silently excluded; an empty verified subset is
// a 400.
//
// @Summary      Submit verified payments to SWIFT
// @Tags         review
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitBatchRequest  true  "Payment ids to settle"
// @Success      200   {object}  submitBatchResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /employee/payments/submit-to-swift [post]
func (h *ReviewHandler) SubmitBatch(c echo.Context) error {
	employeeID, err := principalID(c)
	if err != nil {
		return err
	}

	var req submitBatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.payments.SubmitBatch(c.Request().Context(), req.PaymentIDs, employeeID)
	if err != nil {
		return err
	}
	metrics.TransitionsTotal.WithLabelValues(string(domain.StatusCompleted)).Add(float64(result.Count))
	metrics.BatchSubmitSize.Observe(float64(result.Count))

	return c.JSON(http.StatusOK, submitBatchResponse{
		Success: true,
		Message: "payments submitted to SWIFT",
		Count:   result.Count,
	})
}

// Statistics returns per-status payment counts, computed on demand.
//
// @Summary      Payment statistics
// @Tags         review
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statisticsResponse
// @Failure      401  {object}  errorResponse
// @Router       /employee/statistics [get]
func (h *ReviewHandler) Statistics(c echo.Context) error {
	stats, err := h.reports.Statistics(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, statisticsResponse{
		Success:   true,
		Total:     stats.Total,
		Pending:   stats.Pending,
		Verified:  stats.Verified,
		Completed: stats.Completed,
		Rejected:  stats.Rejected,
	})
}
