package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paylink/payment-portal/internal/api"
	"github.com/paylink/payment-portal/internal/core/service"
	"github.com/paylink/payment-portal/internal/infrastructure/config"
	mongodb "github.com/paylink/payment-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/paylink/payment-portal/internal/infrastructure/db/redis"
	"github.com/paylink/payment-portal/internal/infrastructure/queue"
	"github.com/paylink/payment-portal/internal/token"
	"github.com/paylink/payment-portal/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "payment-portal",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close")
		}
	}()

	if err := mongodb.Bootstrap(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap indexes")
	}

	// --- Repositories ---
	customerRepo := mongodb.NewCustomerRepository(db)
	employeeRepo := mongodb.NewEmployeeRepository(db)
	paymentRepo := mongodb.NewPaymentRepository(mongoClient, db)
	auditRepo := mongodb.NewAuditRepository(db)

	// --- Brute-force guard ---
	// The identifier lockout map lives here, in the composition root, so its
	// state spans all requests but resets on process restart.
	lockout := service.NewLockoutTracker(cfg.Guard.LockoutWindow, cfg.Guard.LockoutMaxFailures)
	loginLimiter := redisdb.NewLoginLimiter(rdb, cfg.Guard.IPWindow, cfg.Guard.IPMaxAttempts)

	// --- Services ---
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(customerRepo, employeeRepo, issuer, lockout, log)

	auditDispatcher := queue.NewDispatcher(0, auditRepo, log)
	auditDispatcher.Start(ctx)

	paymentService := service.NewPaymentService(paymentRepo, auditDispatcher, log)
	reportService := service.NewReportService(paymentRepo)

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		AuthService:    authService,
		PaymentService: paymentService,
		ReportService:  reportService,
		Customers:      customerRepo,
		Employees:      employeeRepo,
		Issuer:         issuer,
		LoginLimiter:   loginLimiter,
		Mongo:          db,
		Redis:          rdb,
		Logger:         log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("payment portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
