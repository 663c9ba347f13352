package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eshaafi/appointment-service/internal/domain"
)

// AffiliationRepository manages doctor-clinic links.
type AffiliationRepository interface {
	Create(ctx context.Context, aff *domain.Affiliation) error
	Exists(ctx context.Context, doctorID, clinicID int64) (bool, error)
	Delete(ctx context.Context, doctorID, clinicID int64) error
}

type affiliationRepository struct {
	pool *pgxpool.Pool
}

// NewAffiliationRepository instantiates repository.
func NewAffiliationRepository(pool *pgxpool.Pool) AffiliationRepository {
	return &affiliationRepository{pool: pool}
}

func (r *affiliationRepository) Create(ctx context.Context, aff *domain.Affiliation) error {
	const query = `
        INSERT INTO affiliations (doctor_id, clinic_id)
        VALUES ($1, $2)
        ON CONFLICT (doctor_id, clinic_id) DO NOTHING
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, aff.DoctorID, aff.ClinicID).Scan(&aff.ID, &aff.CreatedAt)
	if err == pgx.ErrNoRows {
		// already affiliated; treat as success
		return nil
	}
	return err
}

func (r *affiliationRepository) Exists(ctx context.Context, doctorID, clinicID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM affiliations WHERE doctor_id=$1 AND clinic_id=$2)`,
		doctorID, clinicID).Scan(&exists)
	return exists, err
}

func (r *affiliationRepository) Delete(ctx context.Context, doctorID, clinicID int64) error {
	cmd, err := r.pool.Exec(ctx,
		`DELETE FROM affiliations WHERE doctor_id=$1 AND clinic_id=$2`, doctorID, clinicID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
