package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/paylink/payment-portal/internal/core/domain"
	"github.com/paylink/payment-portal/internal/token"
)

type stubCustomerRepo struct {
	customers map[string]*domain.Customer
}

func (r *stubCustomerRepo) Create(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	return c, nil
}

func (r *stubCustomerRepo) FindByUsername(_ context.Context, _ string) (*domain.Customer, error) {
	return nil, domain.ErrCustomerNotFound
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id string) (*domain.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return c, nil
}

type stubEmployeeRepo struct {
	employees map[string]*domain.Employee
}

func (r *stubEmployeeRepo) FindByCodeAndEmail(_ context.Context, _, _ string) (*domain.Employee, error) {
	return nil, domain.ErrEmployeeNotFound
}

func (r *stubEmployeeRepo) FindByID(_ context.Context, id string) (*domain.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *stubEmployeeRepo) SetActive(_ context.Context, id string, active bool) error {
	e, ok := r.employees[id]
	if !ok {
		return domain.ErrEmployeeNotFound
	}
	e.Active = active
	return nil
}

func testContext(t *testing.T, authorization string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func expectUnauthorized(t *testing.T, err error) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", he.Code)
	}
}

func TestCustomerAuth_ValidToken(t *testing.T) {
	issuer := token.NewIssuer("secret", time.Hour)
	repo := &stubCustomerRepo{customers: map[string]*domain.Customer{
		"cust_1": {ID: "cust_1", Username: "alice"},
	}}

	raw, err := issuer.Issue("cust_1", domain.KindCustomer)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c, rec := testContext(t, "Bearer "+raw)
	called := false
	mw := CustomerAuth(issuer, repo, zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		called = true
		if c.Get(CtxPrincipalID) != "cust_1" {
			t.Fatalf("principal id not set")
		}
		if c.Get(CtxPrincipalKind) != string(domain.KindCustomer) {
			t.Fatalf("principal kind not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCustomerAuth_RejectsEmployeeToken(t *testing.T) {
	issuer := token.NewIssuer("secret", time.Hour)
	repo := &stubCustomerRepo{customers: map[string]*domain.Customer{
		// Same id exists in the customer store; the kind check must still
		// refuse before any lookup.
		"emp_1": {ID: "emp_1"},
	}}

	raw, err := issuer.Issue("emp_1", domain.KindEmployee)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c, _ := testContext(t, "Bearer "+raw)
	mw := CustomerAuth(issuer, repo, zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	expectUnauthorized(t, handler(c))
}

func TestEmployeeAuth_RejectsCustomerToken(t *testing.T) {
	issuer := token.NewIssuer("secret", time.Hour)
	repo := &stubEmployeeRepo{employees: map[string]*domain.Employee{
		"cust_1": {ID: "cust_1", Active: true},
	}}

	raw, err := issuer.Issue("cust_1", domain.KindCustomer)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c, _ := testContext(t, "Bearer "+raw)
	mw := EmployeeAuth(issuer, repo, zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	expectUnauthorized(t, handler(c))
}

func TestEmployeeAuth_ValidToken(t *testing.T) {
	issuer := token.NewIssuer("secret", time.Hour)
	repo := &stubEmployeeRepo{employees: map[string]*domain.Employee{
		"emp_1": {ID: "emp_1", Role: domain.RoleStaff, Active: true},
	}}

	raw, err := issuer.Issue("emp_1", domain.KindEmployee)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c, _ := testContext(t, "Bearer "+raw)
	called := false
	mw := EmployeeAuth(issuer, repo, zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		called = true
		if c.Get(CtxRole) != domain.RoleStaff {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestEmployeeAuth_DeactivatedEmployee(t *testing.T) {
	issuer := token.NewIssuer("secret", time.Hour)
	repo := &stubEmployeeRepo{employees: map[string]*domain.Employee{
		"emp_1": {ID: "emp_1", Active: false},
	}}

	// The token itself is still valid; deactivation takes effect on the next
	// request regardless of expiry.
	raw, err := issuer.Issue("emp_1", domain.KindEmployee)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c, _ := testContext(t, "Bearer "+raw)
	mw := EmployeeAuth(issuer, repo, zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	expectUnauthorized(t, handler(c))
}

func TestCustomerAuth_UnknownPrincipal(t *testing.T) {
	issuer := token.NewIssuer("secret", time.Hour)
	repo := &stubCustomerRepo{customers: map[string]*domain.Customer{}}

	raw, err := issuer.Issue("ghost", domain.KindCustomer)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c, _ := testContext(t, "Bearer "+raw)
	mw := CustomerAuth(issuer, repo, zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	expectUnauthorized(t, handler(c))
}

func TestCustomerAuth_HeaderVariants(t *testing.T) {
	issuer := token.NewIssuer("secret", time.Hour)
	repo := &stubCustomerRepo{customers: map[string]*domain.Customer{}}
	mw := CustomerAuth(issuer, repo, zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	for _, header := range []string{"", "Token abc", "Bearer", "Bearer not.a.token"} {
		c, _ := testContext(t, header)
		expectUnauthorized(t, handler(c))
	}
}
