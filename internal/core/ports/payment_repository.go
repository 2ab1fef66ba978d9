package ports

import (
	"context"
	"time"

	"github.com/paylink/payment-portal/internal/core/domain"
)

// ReviewUpdate carries the fields written when a payment transitions out of
// pending. Reason is set only for rejections.
type ReviewUpdate struct {
	Status     domain.PaymentStatus
	ReviewerID string
	ReviewedAt time.Time
	Reason     string
}

// PaymentRepository defines persistence for the payment lifecycle engine.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	FindByID(ctx context.Context, id string) (*domain.Payment, error)

	// List returns payments newest-created-first. Empty customerID means all
	// customers; empty status means all statuses.
	List(ctx context.Context, customerID string, status domain.PaymentStatus) ([]*domain.Payment, error)

	// MarkReviewed transitions a payment out of pending. The update is
	// conditional on the stored status still being pending, so concurrent
	// reviews cannot both win; a non-matching update reports
	// domain.ErrInvalidTransition (or ErrPaymentNotFound if the id is unknown).
	MarkReviewed(ctx context.Context, id string, update ReviewUpdate) error

	// SubmitBatch transitions every listed payment whose status is verified to
	// completed, stamping submitter and timestamp, as a single atomic unit.
	// It returns the ids actually completed; ids that are missing or not
	// verified are excluded without error. An empty verified subset reports
	// domain.ErrNothingToSubmit.
	SubmitBatch(ctx context.Context, ids []string, submitterID string, at time.Time) ([]string, error)

	// CountByStatus returns the number of payments per status.
	CountByStatus(ctx context.Context) (map[domain.PaymentStatus]int64, error)
}

// AuditRepository persists the append-only payment audit trail.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuditEvent) error
}
