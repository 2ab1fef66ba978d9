package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/paylink/payment-portal/internal/core/domain"
	"github.com/paylink/payment-portal/internal/core/ports"
)

type stubPaymentRepo struct {
	payments map[string]*domain.Payment
	nextID   int
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{payments: make(map[string]*domain.Payment)}
}

func (r *stubPaymentRepo) Create(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
	clone := *p
	r.nextID++
	clone.ID = "pay_" + strconv.Itoa(r.nextID)
	r.payments[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubPaymentRepo) FindByID(_ context.Context, id string) (*domain.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPaymentRepo) List(_ context.Context, customerID string, status domain.PaymentStatus) ([]*domain.Payment, error) {
	var out []*domain.Payment
	for _, p := range r.payments {
		if customerID != "" && p.CustomerID != customerID {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubPaymentRepo) MarkReviewed(_ context.Context, id string, update ports.ReviewUpdate) error {
	p, ok := r.payments[id]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	if p.Status != domain.StatusPending {
		return domain.ErrInvalidTransition
	}
	p.Status = update.Status
	p.ReviewedBy = update.ReviewerID
	reviewedAt := update.ReviewedAt
	p.ReviewedAt = &reviewedAt
	p.RejectionReason = update.Reason
	return nil
}

func (r *stubPaymentRepo) SubmitBatch(_ context.Context, ids []string, submitterID string, at time.Time) ([]string, error) {
	var completed []string
	for _, id := range ids {
		p, ok := r.payments[id]
		if !ok || p.Status != domain.StatusVerified {
			continue
		}
		completed = append(completed, id)
	}
	if len(completed) == 0 {
		return nil, domain.ErrNothingToSubmit
	}
	for _, id := range completed {
		p := r.payments[id]
		p.Status = domain.StatusCompleted
		p.SubmittedBy = submitterID
		submittedAt := at
		p.SubmittedAt = &submittedAt
	}
	return completed, nil
}

func (r *stubPaymentRepo) CountByStatus(_ context.Context) (map[domain.PaymentStatus]int64, error) {
	counts := make(map[domain.PaymentStatus]int64)
	for _, p := range r.payments {
		counts[p.Status]++
	}
	return counts, nil
}

type recordingAuditSink struct {
	events []domain.AuditEvent
}

func (s *recordingAuditSink) Enqueue(event domain.AuditEvent) {
	s.events = append(s.events, event)
}

func newTestPaymentService() (*PaymentService, *stubPaymentRepo, *recordingAuditSink) {
	repo := newStubPaymentRepo()
	sink := &recordingAuditSink{}
	return NewPaymentService(repo, sink, zerolog.Nop()), repo, sink
}

func validCreateInput() ports.CreatePaymentInput {
	return ports.CreatePaymentInput{
		CustomerID:   "cust_1",
		Amount:       decimal.NewFromFloat(1500.50),
		Currency:     "USD",
		Provider:     "SWIFT",
		PayeeAccount: "GB29NWBK60161331926819",
		SwiftCode:    "NWBKGB2L",
	}
}

func seedPayment(repo *stubPaymentRepo, customerID string, status domain.PaymentStatus) *domain.Payment {
	p, _ := repo.Create(context.Background(), &domain.Payment{
		CustomerID:   customerID,
		Amount:       decimal.NewFromInt(100),
		Currency:     "USD",
		Provider:     "SWIFT",
		PayeeAccount: "GB29NWBK60161331926819",
		SwiftCode:    "NWBKGB2L",
		Status:       status,
		CreatedAt:    time.Now().UTC(),
	})
	repo.payments[p.ID].Status = status
	return p
}

func TestPaymentService_Create(t *testing.T) {
	svc, _, sink := newTestPaymentService()

	payment, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if payment.Status != domain.StatusPending {
		t.Fatalf("new payment must be pending, got %s", payment.Status)
	}
	if payment.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if len(sink.events) != 1 || sink.events[0].Status != domain.StatusPending {
		t.Fatalf("expected one pending audit event, got %+v", sink.events)
	}
}

func TestPaymentService_Create_Validation(t *testing.T) {
	svc, _, _ := newTestPaymentService()

	cases := map[string]func(*ports.CreatePaymentInput){
		"zero amount":       func(in *ports.CreatePaymentInput) { in.Amount = decimal.Zero },
		"negative amount":   func(in *ports.CreatePaymentInput) { in.Amount = decimal.NewFromInt(-5) },
		"bad currency":      func(in *ports.CreatePaymentInput) { in.Currency = "JPY" },
		"bad provider":      func(in *ports.CreatePaymentInput) { in.Provider = "SEPA" },
		"bad payee account": func(in *ports.CreatePaymentInput) { in.PayeeAccount = "abc" },
		"bad swift code":    func(in *ports.CreatePaymentInput) { in.SwiftCode = "nope" },
		"no customer":       func(in *ports.CreatePaymentInput) { in.CustomerID = "" },
	}
	for name, mutate := range cases {
		in := validCreateInput()
		mutate(&in)
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, domain.ErrValidationFailed) {
			t.Errorf("%s: expected ErrValidationFailed, got %v", name, err)
		}
	}
}

func TestPaymentService_Get_OwnershipIsForbiddenNotNotFound(t *testing.T) {
	svc, repo, _ := newTestPaymentService()
	p := seedPayment(repo, "cust_1", domain.StatusPending)

	_, err := svc.Get(context.Background(), ports.GetPaymentInput{
		PaymentID:  p.ID,
		CustomerID: "cust_2",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign payment, got %v", err)
	}
}

func TestPaymentService_Get_EmployeeSeesAnyPayment(t *testing.T) {
	svc, repo, _ := newTestPaymentService()
	p := seedPayment(repo, "cust_1", domain.StatusPending)

	got, err := svc.Get(context.Background(), ports.GetPaymentInput{PaymentID: p.ID})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != p.ID {
		t.Fatalf("unexpected payment: %+v", got)
	}
}

func TestPaymentService_Get_Missing(t *testing.T) {
	svc, _, _ := newTestPaymentService()

	_, err := svc.Get(context.Background(), ports.GetPaymentInput{PaymentID: "missing", CustomerID: "cust_1"})
	if !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}

func TestPaymentService_List_RejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newTestPaymentService()

	_, err := svc.List(context.Background(), ports.ListPaymentsInput{Status: "approved"})
	if !errors.Is(err, domain.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
}

func TestPaymentService_Verify(t *testing.T) {
	svc, repo, sink := newTestPaymentService()
	p := seedPayment(repo, "cust_1", domain.StatusPending)

	verified, err := svc.Verify(context.Background(), p.ID, "emp_1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified.Status != domain.StatusVerified {
		t.Fatalf("expected verified, got %s", verified.Status)
	}
	if verified.ReviewedBy != "emp_1" || verified.ReviewedAt == nil {
		t.Fatalf("reviewer not recorded: %+v", verified)
	}
	if len(sink.events) != 1 || sink.events[0].Status != domain.StatusVerified {
		t.Fatalf("expected verified audit event, got %+v", sink.events)
	}
}

func TestPaymentService_Verify_DoubleVerifyFailsUnchanged(t *testing.T) {
	svc, repo, _ := newTestPaymentService()
	p := seedPayment(repo, "cust_1", domain.StatusPending)

	if _, err := svc.Verify(context.Background(), p.ID, "emp_1"); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	if _, err := svc.Verify(context.Background(), p.ID, "emp_2"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	stored := repo.payments[p.ID]
	if stored.Status != domain.StatusVerified || stored.ReviewedBy != "emp_1" {
		t.Fatalf("second verify mutated the payment: %+v", stored)
	}
}

func TestPaymentService_Verify_TerminalStatesRefuse(t *testing.T) {
	svc, repo, _ := newTestPaymentService()

	for _, status := range []domain.PaymentStatus{domain.StatusCompleted, domain.StatusRejected} {
		p := seedPayment(repo, "cust_1", status)
		if _, err := svc.Verify(context.Background(), p.ID, "emp_1"); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("%s: expected ErrInvalidTransition, got %v", status, err)
		}
	}
}

func TestPaymentService_Reject(t *testing.T) {
	svc, repo, _ := newTestPaymentService()
	p := seedPayment(repo, "cust_1", domain.StatusPending)

	rejected, err := svc.Reject(context.Background(), p.ID, "emp_1", "payee account mismatch")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != domain.StatusRejected {
		t.Fatalf("expected rejected, got %s", rejected.Status)
	}
	if rejected.RejectionReason != "payee account mismatch" {
		t.Fatalf("reason not stored: %+v", rejected)
	}
}

func TestPaymentService_Reject_EmptyReason(t *testing.T) {
	svc, repo, _ := newTestPaymentService()
	p := seedPayment(repo, "cust_1", domain.StatusPending)

	for _, reason := range []string{"", "   "} {
		if _, err := svc.Reject(context.Background(), p.ID, "emp_1", reason); !errors.Is(err, domain.ErrValidationFailed) {
			t.Errorf("reason %q: expected ErrValidationFailed, got %v", reason, err)
		}
	}

	if repo.payments[p.ID].Status != domain.StatusPending {
		t.Fatalf("rejected without a reason")
	}
}

func TestPaymentService_SubmitBatch_CompletesOnlyVerified(t *testing.T) {
	svc, repo, sink := newTestPaymentService()
	verified := seedPayment(repo, "cust_1", domain.StatusVerified)
	pending := seedPayment(repo, "cust_1", domain.StatusPending)

	result, err := svc.SubmitBatch(context.Background(), []string{verified.ID, pending.ID, "missing"}, "emp_1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Count != 1 {
		t.Fatalf("expected count 1, got %d", result.Count)
	}

	if repo.payments[verified.ID].Status != domain.StatusCompleted {
		t.Fatalf("verified payment not completed")
	}
	if repo.payments[verified.ID].SubmittedBy != "emp_1" || repo.payments[verified.ID].SubmittedAt == nil {
		t.Fatalf("submitter not recorded: %+v", repo.payments[verified.ID])
	}
	if repo.payments[pending.ID].Status != domain.StatusPending {
		t.Fatalf("pending payment mutated by batch submit")
	}
	if len(sink.events) != 1 || sink.events[0].PaymentID != verified.ID {
		t.Fatalf("expected audit event for completed id only, got %+v", sink.events)
	}
}

func TestPaymentService_SubmitBatch_NothingToSubmit(t *testing.T) {
	svc, repo, _ := newTestPaymentService()
	pending := seedPayment(repo, "cust_1", domain.StatusPending)

	if _, err := svc.SubmitBatch(context.Background(), []string{pending.ID}, "emp_1"); !errors.Is(err, domain.ErrNothingToSubmit) {
		t.Fatalf("expected ErrNothingToSubmit, got %v", err)
	}
	if repo.payments[pending.ID].Status != domain.StatusPending {
		t.Fatalf("failed batch mutated a payment")
	}
}

func TestPaymentService_SubmitBatch_EmptyIDList(t *testing.T) {
	svc, _, _ := newTestPaymentService()

	if _, err := svc.SubmitBatch(context.Background(), nil, "emp_1"); !errors.Is(err, domain.ErrNothingToSubmit) {
		t.Fatalf("expected ErrNothingToSubmit, got %v", err)
	}
}
