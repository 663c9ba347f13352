package service

import (
	"context"

	"github.com/eshaafi/appointment-service/internal/domain"
	"github.com/eshaafi/appointment-service/internal/repository"
	apperrors "github.com/eshaafi/appointment-service/pkg/util"
)

// AdminService serves the platform admin read surface.
type AdminService struct {
	stats        repository.StatsRepository
	applications repository.ApplicationRepository
}

// NewAdminService constructs the service.
func NewAdminService(stats repository.StatsRepository, applications repository.ApplicationRepository) *AdminService {
	return &AdminService{stats: stats, applications: applications}
}

// Stats returns platform counters.
func (s *AdminService) Stats(ctx context.Context) (*repository.PlatformStats, error) {
	stats, err := s.stats.Platform(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}

// PendingApplications lists pending applications across all clinics.
func (s *AdminService) PendingApplications(ctx context.Context, limit int) ([]domain.Application, error) {
	apps, err := s.applications.ListByStatus(ctx, domain.ApplicationStatusPending, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return apps, nil
}
