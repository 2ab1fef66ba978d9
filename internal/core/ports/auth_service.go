package ports

import (
	"context"

	"github.com/paylink/payment-portal/internal/core/domain"
)

// RegisterCustomerInput carries the registration form fields. Syntax
// validation (lengths, patterns) happens at the transport layer.
type RegisterCustomerInput struct {
	FullName      string
	IDNumber      string
	AccountNumber string
	Username      string
	Password      string
}

// CustomerLoginInput identifies a customer login attempt. SourceIP is used by
// the brute-force guard only.
type CustomerLoginInput struct {
	Username      string
	AccountNumber string
	Password      string
	SourceIP      string
}

// EmployeeLoginInput identifies an employee login attempt.
type EmployeeLoginInput struct {
	EmployeeCode string
	Email        string
	Password     string
	SourceIP     string
}

// AuthService implements registration and login for both principal domains.
type AuthService interface {
	RegisterCustomer(ctx context.Context, in RegisterCustomerInput) (string, *domain.Customer, error)
	LoginCustomer(ctx context.Context, in CustomerLoginInput) (string, *domain.Customer, error)
	LoginEmployee(ctx context.Context, in EmployeeLoginInput) (string, *domain.Employee, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	GetEmployee(ctx context.Context, id string) (*domain.Employee, error)

	// SetEmployeeActive flips an employee's active flag. Deactivation takes
	// effect on the target's next request, independent of token expiry.
	SetEmployeeActive(ctx context.Context, actorID, employeeID string, active bool) (*domain.Employee, error)
}
