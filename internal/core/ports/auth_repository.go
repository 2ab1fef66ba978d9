package ports

import (
	"context"

	"github.com/paylink/payment-portal/internal/core/domain"
)

// CustomerRepository defines persistence for the customer credential domain.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	FindByUsername(ctx context.Context, username string) (*domain.Customer, error)
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
}

// EmployeeRepository defines persistence for the employee credential domain.
// Employees are never created through the API; see cmd/seed.
type EmployeeRepository interface {
	FindByCodeAndEmail(ctx context.Context, employeeCode, email string) (*domain.Employee, error)
	FindByID(ctx context.Context, id string) (*domain.Employee, error)
	SetActive(ctx context.Context, id string, active bool) error
}
