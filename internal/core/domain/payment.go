package domain

import (
	"errors"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the lifecycle state of a payment.
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusVerified  PaymentStatus = "verified"
	StatusCompleted PaymentStatus = "completed"
	StatusRejected  PaymentStatus = "rejected"
)

// validTransitions defines the allowed state machine transitions.
// completed and rejected are terminal.
var validTransitions = map[PaymentStatus][]PaymentStatus{
	StatusPending:  {StatusVerified, StatusRejected},
	StatusVerified: {StatusCompleted},
}

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrPaymentNotFound = errors.New("payment not found")
var ErrValidationFailed = errors.New("validation failed")
var ErrNothingToSubmit = errors.New("no verified payments to submit")
var ErrForbidden = errors.New("access forbidden")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsValid reports whether s is one of the four known statuses.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// ProviderSwift is the only supported settlement network.
const ProviderSwift = "SWIFT"

// Currencies accepted at payment creation.
var SupportedCurrencies = map[string]struct{}{
	"USD": {},
	"EUR": {},
	"GBP": {},
	"ZAR": {},
}

var (
	payeeAccountPattern = regexp.MustCompile(`^[0-9A-Z]{8,34}$`)
	swiftCodePattern    = regexp.MustCompile(`^[A-Z]{6}[A-Z0-9]{2}([A-Z0-9]{3})?$`)
)

// ValidPayeeAccount reports whether s is a well-formed payee account number.
func ValidPayeeAccount(s string) bool { return payeeAccountPattern.MatchString(s) }

// ValidSwiftCode reports whether s is a well-formed SWIFT/BIC code.
func ValidSwiftCode(s string) bool { return swiftCodePattern.MatchString(s) }

// Payment is the core aggregate root. A payment is created by a customer in
// pending status and only ever mutated by employee review actions.
type Payment struct {
	ID              string          `json:"id" bson:"_id,omitempty"`
	CustomerID      string          `json:"customer_id" bson:"customer_id"`
	Amount          decimal.Decimal `json:"amount" bson:"amount"`
	Currency        string          `json:"currency" bson:"currency"`
	Provider        string          `json:"provider" bson:"provider"`
	PayeeAccount    string          `json:"payee_account" bson:"payee_account"`
	SwiftCode       string          `json:"swift_code" bson:"swift_code"`
	Status          PaymentStatus   `json:"status" bson:"status"`
	ReviewedBy      string          `json:"reviewed_by,omitempty" bson:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time      `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
	SubmittedBy     string          `json:"submitted_by,omitempty" bson:"submitted_by,omitempty"`
	SubmittedAt     *time.Time      `json:"submitted_at,omitempty" bson:"submitted_at,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at" bson:"created_at"`
}

// Validate checks the closed-set and pattern constraints on a payment at
// creation time. The HTTP layer validates the same rules up front; the engine
// re-checks them so a misbehaving caller cannot persist an invalid record.
func (p *Payment) Validate() error {
	if !p.Amount.IsPositive() {
		return ErrValidationFailed
	}
	if _, ok := SupportedCurrencies[p.Currency]; !ok {
		return ErrValidationFailed
	}
	if p.Provider != ProviderSwift {
		return ErrValidationFailed
	}
	if !ValidPayeeAccount(p.PayeeAccount) {
		return ErrValidationFailed
	}
	if !ValidSwiftCode(p.SwiftCode) {
		return ErrValidationFailed
	}
	return nil
}
