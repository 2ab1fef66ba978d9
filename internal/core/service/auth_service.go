package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/paylink/payment-portal/internal/core/domain"
	"github.com/paylink/payment-portal/internal/core/ports"
	"github.com/paylink/payment-portal/internal/token"
)

// AuthService implements registration and login for both credential domains.
// The per-identifier lockout is checked before any credential comparison and
// updated after it: a failed check records exactly one failure, a successful
// one clears the counter. The per-IP layer lives in the HTTP middleware.
type AuthService struct {
	customers ports.CustomerRepository
	employees ports.EmployeeRepository
	issuer    *token.Issuer
	lockout   *LockoutTracker
	logger    zerolog.Logger
}

func NewAuthService(
	customers ports.CustomerRepository,
	employees ports.EmployeeRepository,
	issuer *token.Issuer,
	lockout *LockoutTracker,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		customers: customers,
		employees: employees,
		issuer:    issuer,
		lockout:   lockout,
		logger:    logger,
	}
}

// RegisterCustomer creates a customer account and returns a fresh token.
func (s *AuthService) RegisterCustomer(ctx context.Context, in ports.RegisterCustomerInput) (string, *domain.Customer, error) {
	if in.FullName == "" || in.IDNumber == "" || in.AccountNumber == "" || in.Username == "" || in.Password == "" {
		return "", nil, domain.ErrValidationFailed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	customer := &domain.Customer{
		FullName:      in.FullName,
		IDNumber:      in.IDNumber,
		AccountNumber: in.AccountNumber,
		Username:      in.Username,
		PasswordHash:  string(hash),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.customers.Create(ctx, customer)
	if err != nil {
		return "", nil, err
	}

	tkn, err := s.issuer.Issue(created.ID, domain.KindCustomer)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("username", created.Username).Msg("customer registered")
	return tkn, created, nil
}

// LoginCustomer authenticates a customer by username + account number.
func (s *AuthService) LoginCustomer(ctx context.Context, in ports.CustomerLoginInput) (string, *domain.Customer, error) {
	if in.Username == "" || in.Password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if err := s.checkLockout(in.Username); err != nil {
		return "", nil, err
	}

	customer, err := s.customers.FindByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			s.recordFailure(domain.KindCustomer, in.Username, in.SourceIP)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if customer.AccountNumber != in.AccountNumber {
		s.recordFailure(domain.KindCustomer, in.Username, in.SourceIP)
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(in.Password)) != nil {
		s.recordFailure(domain.KindCustomer, in.Username, in.SourceIP)
		return "", nil, domain.ErrInvalidCredentials
	}

	s.lockout.Clear(in.Username)

	tkn, err := s.issuer.Issue(customer.ID, domain.KindCustomer)
	if err != nil {
		return "", nil, err
	}
	return tkn, customer, nil
}

// LoginEmployee authenticates an employee by employee code + email. Inactive
// employees fail exactly like unknown ones.
func (s *AuthService) LoginEmployee(ctx context.Context, in ports.EmployeeLoginInput) (string, *domain.Employee, error) {
	if in.EmployeeCode == "" || in.Email == "" || in.Password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if err := s.checkLockout(in.EmployeeCode); err != nil {
		return "", nil, err
	}

	employee, err := s.employees.FindByCodeAndEmail(ctx, in.EmployeeCode, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			s.recordFailure(domain.KindEmployee, in.EmployeeCode, in.SourceIP)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !employee.Active {
		s.recordFailure(domain.KindEmployee, in.EmployeeCode, in.SourceIP)
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(in.Password)) != nil {
		s.recordFailure(domain.KindEmployee, in.EmployeeCode, in.SourceIP)
		return "", nil, domain.ErrInvalidCredentials
	}

	s.lockout.Clear(in.EmployeeCode)

	tkn, err := s.issuer.Issue(employee.ID, domain.KindEmployee)
	if err != nil {
		return "", nil, err
	}
	return tkn, employee, nil
}

// GetCustomer returns a customer profile by id.
func (s *AuthService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

// GetEmployee returns an employee profile by id.
func (s *AuthService) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	return s.employees.FindByID(ctx, id)
}

// SetEmployeeActive flips an employee's active flag. An admin cannot
// deactivate their own account, so the last admin cannot lock everyone out.
func (s *AuthService) SetEmployeeActive(ctx context.Context, actorID, employeeID string, active bool) (*domain.Employee, error) {
	if !active && actorID == employeeID {
		return nil, domain.ErrValidationFailed
	}

	if err := s.employees.SetActive(ctx, employeeID, active); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("actor_id", actorID).
		Str("employee_id", employeeID).
		Bool("active", active).
		Msg("employee active flag changed")

	return s.employees.FindByID(ctx, employeeID)
}

// checkLockout gates the attempt before any credential comparison runs.
func (s *AuthService) checkLockout(identifier string) error {
	if locked, retryAfter := s.lockout.Check(identifier); locked {
		s.logger.Warn().Str("identifier", identifier).Dur("retry_after", retryAfter).Msg("login attempt while locked out")
		return &domain.LockoutError{RetryAfter: retryAfter}
	}
	return nil
}

func (s *AuthService) recordFailure(kind domain.PrincipalKind, identifier, sourceIP string) {
	s.lockout.RecordFailure(identifier)
	s.logger.Warn().
		Str("kind", string(kind)).
		Str("identifier", identifier).
		Str("source_ip", sourceIP).
		Msg("failed login attempt")
}
