// Command seed provisions the employee accounts. Employees cannot register
// through the API; this is the only way accounts enter the employee store.
// Running it again drops and recreates the whole set.
package main

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/paylink/payment-portal/internal/core/domain"
	"github.com/paylink/payment-portal/internal/infrastructure/config"
	mongodb "github.com/paylink/payment-portal/internal/infrastructure/db/mongo"
	"github.com/paylink/payment-portal/pkg/logger"
)

type seedEmployee struct {
	FullName     string
	EmployeeCode string
	Email        string
	Password     string
	Role         string
	Department   string
}

var seedEmployees = []seedEmployee{
	{"Sarah Johnson", "EMP100001", "sarah.johnson@paylink.example", "Adm1n!Secure#2024", domain.RoleAdmin, "management"},
	{"David Nkosi", "EMP100002", "david.nkosi@paylink.example", "Ver1fy!Payments#2024", domain.RoleStaff, "payments"},
	{"Priya Naidoo", "EMP100003", "priya.naidoo@paylink.example", "C0mply!Review#2024", domain.RoleStaff, "compliance"},
	{"Michael van Wyk", "EMP100004", "michael.vanwyk@paylink.example", "0perate!Daily#2024", domain.RoleStaff, "operations"},
}

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  true,
		Service: "payment-portal-seed",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	repo := mongodb.NewEmployeeRepository(db)

	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure indexes")
	}
	if err := repo.DeleteAll(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to clear employees")
	}

	now := time.Now().UTC()
	for _, s := range seedEmployees {
		if !domain.ValidEmployeeCode(s.EmployeeCode) {
			log.Fatal().Str("employee_code", s.EmployeeCode).Msg("malformed employee code in seed data")
		}
		if _, ok := domain.Departments[s.Department]; !ok {
			log.Fatal().Str("department", s.Department).Msg("unknown department in seed data")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to hash password")
		}

		employee := &domain.Employee{
			FullName:     s.FullName,
			EmployeeCode: s.EmployeeCode,
			Email:        s.Email,
			PasswordHash: string(hash),
			Role:         s.Role,
			Department:   s.Department,
			Active:       true,
			CreatedAt:    now,
		}
		if err := repo.Insert(ctx, employee); err != nil {
			log.Fatal().Err(err).Str("employee_code", s.EmployeeCode).Msg("failed to insert employee")
		}
		log.Info().
			Str("employee_code", s.EmployeeCode).
			Str("role", s.Role).
			Str("department", s.Department).
			Msg("employee provisioned")
	}

	log.Info().Int("count", len(seedEmployees)).Msg("seeding complete")
}
