package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PlatformStats is the admin dashboard summary.
type PlatformStats struct {
	Users               int64
	Doctors             int64
	Clinics             int64
	Appointments        int64
	PendingApplications int64
}

// StatsRepository serves the admin read surface.
type StatsRepository interface {
	Platform(ctx context.Context) (*PlatformStats, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository instantiates repository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) Platform(ctx context.Context) (*PlatformStats, error) {
	const query = `
        SELECT
            (SELECT COUNT(*) FROM users),
            (SELECT COUNT(*) FROM doctors),
            (SELECT COUNT(*) FROM clinics WHERE active),
            (SELECT COUNT(*) FROM appointments),
            (SELECT COUNT(*) FROM clinic_applications WHERE status='PENDING')`

	var stats PlatformStats
	if err := r.pool.QueryRow(ctx, query).Scan(
		&stats.Users,
		&stats.Doctors,
		&stats.Clinics,
		&stats.Appointments,
		&stats.PendingApplications,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}
