package handler

import (
	"github.com/paylink/payment-portal/internal/core/domain"
)

// Mapping between domain aggregates and transport types. Kept separate from
// the handlers so the JSON contract is not coupled to internal changes.

func toCustomerResponse(c *domain.Customer) customerResponse {
	return customerResponse{
		ID:            c.ID,
		FullName:      c.FullName,
		Username:      c.Username,
		AccountNumber: c.AccountNumber,
		CreatedAt:     c.CreatedAt,
	}
}

func toEmployeeResponse(e *domain.Employee) employeeResponse {
	return employeeResponse{
		ID:           e.ID,
		FullName:     e.FullName,
		EmployeeCode: e.EmployeeCode,
		Email:        e.Email,
		Role:         e.Role,
		Department:   e.Department,
	}
}

func toPaymentResponse(p *domain.Payment) paymentResponse {
	return paymentResponse{
		ID:              p.ID,
		CustomerID:      p.CustomerID,
		Amount:          p.Amount.String(),
		Currency:        p.Currency,
		Provider:        p.Provider,
		PayeeAccount:    p.PayeeAccount,
		SwiftCode:       p.SwiftCode,
		Status:          string(p.Status),
		RejectionReason: p.RejectionReason,
		ReviewedBy:      p.ReviewedBy,
		ReviewedAt:      p.ReviewedAt,
		SubmittedBy:     p.SubmittedBy,
		SubmittedAt:     p.SubmittedAt,
		CreatedAt:       p.CreatedAt,
	}
}

func toPaymentResponses(payments []*domain.Payment) []paymentResponse {
	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(p))
	}
	return out
}
