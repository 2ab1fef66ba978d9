package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/paylink/payment-portal/internal/core/domain"
)

// CreatePaymentInput carries all data needed to create a new payment.
type CreatePaymentInput struct {
	CustomerID   string
	Amount       decimal.Decimal
	Currency     string
	Provider     string
	PayeeAccount string
	SwiftCode    string
}

// GetPaymentInput identifies a single-payment read. For customer reads
// CustomerID must be set and ownership is enforced; employee reads leave it
// empty and see any payment.
type GetPaymentInput struct {
	PaymentID  string
	CustomerID string
}

// ListPaymentsInput filters a listing. CustomerID empty means all customers
// (employee view); Status empty means all statuses.
type ListPaymentsInput struct {
	CustomerID string
	Status     string
}

// BatchSubmitResult reports the outcome of a batch submission.
type BatchSubmitResult struct {
	Count int64
}

// PaymentService defines the lifecycle engine's use-case operations.
type PaymentService interface {
	Create(ctx context.Context, in CreatePaymentInput) (*domain.Payment, error)
	Get(ctx context.Context, in GetPaymentInput) (*domain.Payment, error)
	List(ctx context.Context, in ListPaymentsInput) ([]*domain.Payment, error)
	Verify(ctx context.Context, paymentID, employeeID string) (*domain.Payment, error)
	Reject(ctx context.Context, paymentID, employeeID, reason string) (*domain.Payment, error)
	SubmitBatch(ctx context.Context, paymentIDs []string, employeeID string) (*BatchSubmitResult, error)
}

// Statistics is the reporting aggregate: total plus per-status counts,
// computed on demand from the payment store.
type Statistics struct {
	Total     int64
	Pending   int64
	Verified  int64
	Completed int64
	Rejected  int64
}

// ReportService exposes read-only aggregates.
type ReportService interface {
	Statistics(ctx context.Context) (*Statistics, error)
}
