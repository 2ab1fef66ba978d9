package service

import (
	"context"

	"github.com/paylink/payment-portal/internal/core/domain"
	"github.com/paylink/payment-portal/internal/core/ports"
)

// ReportService computes read-only aggregates on demand. Counts reflect the
// store state at query time; nothing is cached.
type ReportService struct {
	repo ports.PaymentRepository
}

func NewReportService(repo ports.PaymentRepository) *ReportService {
	return &ReportService{repo: repo}
}

// Statistics returns the total number of payments and the count per status.
func (s *ReportService) Statistics(ctx context.Context) (*ports.Statistics, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := &ports.Statistics{
		Pending:   counts[domain.StatusPending],
		Verified:  counts[domain.StatusVerified],
		Completed: counts[domain.StatusCompleted],
		Rejected:  counts[domain.StatusRejected],
	}
	stats.Total = stats.Pending + stats.Verified + stats.Completed + stats.Rejected
	return stats, nil
}
