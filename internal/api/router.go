package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/paylink/payment-portal/internal/api/handler"
	"github.com/paylink/payment-portal/internal/api/middleware"
	"github.com/paylink/payment-portal/internal/core/domain"
	"github.com/paylink/payment-portal/internal/core/ports"
	"github.com/paylink/payment-portal/internal/infrastructure/http/handlers"
	"github.com/paylink/payment-portal/internal/token"
)

// Deps carries everything the router wires together. Construction happens in
// the composition root (cmd/server) so the same instances back the seeding
// and background machinery.
type Deps struct {
	AuthService    ports.AuthService
	PaymentService ports.PaymentService
	ReportService  ports.ReportService
	Customers      ports.CustomerRepository
	Employees      ports.EmployeeRepository
	Issuer         *token.Issuer
	LoginLimiter   middleware.AttemptLimiter
	Mongo          *mongo.Database
	Redis          *redis.Client
	Logger         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("payments"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.AuthService)
	employeeHandler := handler.NewEmployeeHandler(d.AuthService)
	paymentHandler := handler.NewPaymentHandler(d.PaymentService)
	reviewHandler := handler.NewReviewHandler(d.PaymentService, d.ReportService)

	customerAuth := middleware.CustomerAuth(d.Issuer, d.Customers, d.Logger)
	employeeAuth := middleware.EmployeeAuth(d.Issuer, d.Employees, d.Logger)
	loginLimit := middleware.LoginRateLimit(d.LoginLimiter, d.Logger)

	// --- Customer credential routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login, loginLimit)
	e.GET("/auth/me", authHandler.Me, customerAuth)

	// --- Customer payment routes ---
	payments := e.Group("/payments", customerAuth)
	payments.POST("", paymentHandler.Create)
	payments.GET("", paymentHandler.List)
	payments.GET("/:id", paymentHandler.Get)

	// --- Employee routes ---
	e.POST("/employee/login", employeeHandler.Login, loginLimit)

	employee := e.Group("/employee", employeeAuth)
	employee.GET("/me", employeeHandler.Me)
	employee.GET("/payments", reviewHandler.List)
	employee.GET("/payments/pending", reviewHandler.ListPending)
	employee.PUT("/payments/:id/verify", reviewHandler.Verify)
	employee.PUT("/payments/:id/reject", reviewHandler.Reject)
	employee.POST("/payments/submit-to-swift", reviewHandler.SubmitBatch)
	employee.GET("/statistics", reviewHandler.Statistics)

	adminOnly := middleware.RBAC(domain.RoleAdmin)
	employee.PUT("/staff/:id/deactivate", employeeHandler.Deactivate, adminOnly)
	employee.PUT("/staff/:id/activate", employeeHandler.Reactivate, adminOnly)

	// --- Observability (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
