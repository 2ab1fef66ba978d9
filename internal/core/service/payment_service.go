package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/paylink/payment-portal/internal/core/domain"
	"github.com/paylink/payment-portal/internal/core/ports"
)

// AuditSink receives lifecycle audit events for asynchronous persistence.
type AuditSink interface {
	Enqueue(event domain.AuditEvent)
}

// PaymentService is the payment lifecycle engine: the single writer of
// payment status. Customers create payments; employees verify, reject and
// batch-submit them. The transition function on domain.PaymentStatus is the
// only authority on legality.
type PaymentService struct {
	repo   ports.PaymentRepository
	audit  AuditSink
	logger zerolog.Logger
}

func NewPaymentService(repo ports.PaymentRepository, audit AuditSink, logger zerolog.Logger) *PaymentService {
	return &PaymentService{repo: repo, audit: audit, logger: logger}
}

// Create stores a new payment in pending status owned by the acting customer.
// Field constraints are re-checked here even though the transport layer
// validates them first.
func (s *PaymentService) Create(ctx context.Context, in ports.CreatePaymentInput) (*domain.Payment, error) {
	payment := &domain.Payment{
		CustomerID:   in.CustomerID,
		Amount:       in.Amount,
		Currency:     in.Currency,
		Provider:     in.Provider,
		PayeeAccount: in.PayeeAccount,
		SwiftCode:    in.SwiftCode,
		Status:       domain.StatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	if in.CustomerID == "" {
		return nil, domain.ErrValidationFailed
	}
	if err := payment.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, payment)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create payment")
		return nil, err
	}

	s.record(created.ID, domain.StatusPending, in.CustomerID, domain.KindCustomer, "payment created")
	s.logger.Info().
		Str("payment_id", created.ID).
		Str("customer_id", in.CustomerID).
		Str("currency", in.Currency).
		Msg("payment created")
	return created, nil
}

// Get returns a single payment. When CustomerID is set, ownership is
// enforced: a payment that exists but belongs to another customer yields
// ErrForbidden, not ErrPaymentNotFound.
func (s *PaymentService) Get(ctx context.Context, in ports.GetPaymentInput) (*domain.Payment, error) {
	payment, err := s.repo.FindByID(ctx, in.PaymentID)
	if err != nil {
		return nil, err
	}
	if in.CustomerID != "" && payment.CustomerID != in.CustomerID {
		return nil, domain.ErrForbidden
	}
	return payment, nil
}

// List returns payments newest-created-first, optionally filtered by owner
// and status. An unknown status filter is a validation error.
func (s *PaymentService) List(ctx context.Context, in ports.ListPaymentsInput) ([]*domain.Payment, error) {
	status := domain.PaymentStatus(in.Status)
	if in.Status != "" && !status.IsValid() {
		return nil, domain.ErrValidationFailed
	}
	return s.repo.List(ctx, in.CustomerID, status)
}

// Verify transitions a pending payment to verified, recording the reviewer.
// A second verify attempt on the same payment is an error, not a no-op.
func (s *PaymentService) Verify(ctx context.Context, paymentID, employeeID string) (*domain.Payment, error) {
	return s.review(ctx, paymentID, employeeID, domain.StatusVerified, "")
}

// Reject transitions a pending payment to rejected with a mandatory reason.
func (s *PaymentService) Reject(ctx context.Context, paymentID, employeeID, reason string) (*domain.Payment, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domain.ErrValidationFailed
	}
	return s.review(ctx, paymentID, employeeID, domain.StatusRejected, reason)
}

func (s *PaymentService) review(ctx context.Context, paymentID, employeeID string, next domain.PaymentStatus, reason string) (*domain.Payment, error) {
	payment, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !payment.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, payment.Status, next)
	}

	update := ports.ReviewUpdate{
		Status:     next,
		ReviewerID: employeeID,
		ReviewedAt: time.Now().UTC(),
		Reason:     reason,
	}
	// Conditional on the stored status still being pending; a lost race
	// surfaces as ErrInvalidTransition, never a silent double-review.
	if err := s.repo.MarkReviewed(ctx, paymentID, update); err != nil {
		return nil, err
	}

	s.record(paymentID, next, employeeID, domain.KindEmployee, reason)
	s.logger.Info().
		Str("payment_id", paymentID).
		Str("employee_id", employeeID).
		Str("status", string(next)).
		Msg("payment reviewed")

	return s.repo.FindByID(ctx, paymentID)
}

// SubmitBatch completes exactly the verified subset of the given ids as a
// single atomic unit. Missing or non-verified ids are silently excluded; an
// empty subset fails with ErrNothingToSubmit and mutates nothing.
func (s *PaymentService) SubmitBatch(ctx context.Context, paymentIDs []string, employeeID string) (*ports.BatchSubmitResult, error) {
	if len(paymentIDs) == 0 {
		return nil, domain.ErrNothingToSubmit
	}

	now := time.Now().UTC()
	completed, err := s.repo.SubmitBatch(ctx, paymentIDs, employeeID, now)
	if err != nil {
		if errors.Is(err, domain.ErrNothingToSubmit) {
			return nil, err
		}
		s.logger.Error().Err(err).Int("batch_size", len(paymentIDs)).Msg("batch submission failed")
		return nil, err
	}

	for _, id := range completed {
		s.record(id, domain.StatusCompleted, employeeID, domain.KindEmployee, "submitted to settlement network")
	}
	s.logger.Info().
		Int("completed", len(completed)).
		Int("requested", len(paymentIDs)).
		Str("employee_id", employeeID).
		Msg("batch submitted")

	return &ports.BatchSubmitResult{Count: int64(len(completed))}, nil
}

// record enqueues an audit event; the trail is best-effort and never blocks
// or fails the operation itself.
func (s *PaymentService) record(paymentID string, status domain.PaymentStatus, actorID string, kind domain.PrincipalKind, note string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(domain.AuditEvent{
		PaymentID: paymentID,
		Status:    status,
		ActorID:   actorID,
		ActorKind: kind,
		Note:      note,
		Timestamp: time.Now().UTC(),
	})
}
