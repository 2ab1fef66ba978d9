package domain

import (
	"errors"
	"regexp"
	"time"
)

// PrincipalKind discriminates the two independent credential domains. It is
// carried through tokens and store lookups so a customer token can never
// authorize an employee operation, and vice versa.
type PrincipalKind string

const (
	KindCustomer PrincipalKind = "customer"
	KindEmployee PrincipalKind = "employee"
)

const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// Departments an employee can belong to.
var Departments = map[string]struct{}{
	"payments":   {},
	"compliance": {},
	"operations": {},
	"management": {},
}

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountLocked = errors.New("account temporarily locked")
var ErrRateLimited = errors.New("too many login attempts")

// LockoutError carries the remaining lockout time so the transport layer can
// render a retry-after hint. errors.Is(err, ErrAccountLocked) matches it.
type LockoutError struct {
	RetryAfter time.Duration
}

func (e *LockoutError) Error() string {
	return "account temporarily locked, retry in " + e.RetryAfter.Round(time.Minute).String()
}

func (e *LockoutError) Is(target error) bool { return target == ErrAccountLocked }
var ErrCustomerExists = errors.New("customer already exists")
var ErrCustomerNotFound = errors.New("customer not found")
var ErrEmployeeNotFound = errors.New("employee not found")

var (
	idNumberPattern      = regexp.MustCompile(`^[0-9]{13}$`)
	accountNumberPattern = regexp.MustCompile(`^[0-9]{10,16}$`)
	employeeCodePattern  = regexp.MustCompile(`^EMP[0-9]{6}$`)
)

// ValidIDNumber reports whether s is a well-formed 13-digit national id.
func ValidIDNumber(s string) bool { return idNumberPattern.MatchString(s) }

// ValidAccountNumber reports whether s is a well-formed bank account number.
func ValidAccountNumber(s string) bool { return accountNumberPattern.MatchString(s) }

// ValidEmployeeCode reports whether s matches the EMP###### staff code form.
func ValidEmployeeCode(s string) bool { return employeeCodePattern.MatchString(s) }

// Customer models a registered portal customer. Identity fields are immutable
// after registration; only the password hash may change.
type Customer struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	IDNumber      string    `json:"id_number"`
	AccountNumber string    `json:"account_number"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Employee models a staff member. Employees are provisioned out-of-band (see
// cmd/seed); deactivation is equivalent to non-existence for authorization.
type Employee struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	EmployeeCode string    `json:"employee_code"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Department   string    `json:"department"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}
