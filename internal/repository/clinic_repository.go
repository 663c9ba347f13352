package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eshaafi/appointment-service/internal/domain"
)

// ClinicRepository encapsulates clinic persistence.
type ClinicRepository interface {
	Create(ctx context.Context, clinic *domain.Clinic) error
	GetByID(ctx context.Context, id int64) (*domain.Clinic, error)
	List(ctx context.Context, limit, offset int) ([]domain.Clinic, error)
}

type clinicRepository struct {
	pool *pgxpool.Pool
}

// NewClinicRepository instantiates repository.
func NewClinicRepository(pool *pgxpool.Pool) ClinicRepository {
	return &clinicRepository{pool: pool}
}

func (r *clinicRepository) Create(ctx context.Context, clinic *domain.Clinic) error {
	const query = `
        INSERT INTO clinics (name, address, city, phone, active)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		clinic.Name,
		clinic.Address,
		clinic.City,
		clinic.Phone,
		clinic.Active,
	).Scan(&clinic.ID, &clinic.CreatedAt, &clinic.UpdatedAt)
}

func (r *clinicRepository) GetByID(ctx context.Context, id int64) (*domain.Clinic, error) {
	const query = `
        SELECT id, name, address, city, phone, active, created_at, updated_at
        FROM clinics WHERE id=$1`

	var clinic domain.Clinic
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&clinic.ID,
		&clinic.Name,
		&clinic.Address,
		&clinic.City,
		&clinic.Phone,
		&clinic.Active,
		&clinic.CreatedAt,
		&clinic.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &clinic, nil
}

func (r *clinicRepository) List(ctx context.Context, limit, offset int) ([]domain.Clinic, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, name, address, city, phone, active, created_at, updated_at
        FROM clinics WHERE active ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClinics(rows)
}

func scanClinics(rows pgx.Rows) ([]domain.Clinic, error) {
	var result []domain.Clinic
	for rows.Next() {
		var clinic domain.Clinic
		if err := rows.Scan(
			&clinic.ID,
			&clinic.Name,
			&clinic.Address,
			&clinic.City,
			&clinic.Phone,
			&clinic.Active,
			&clinic.CreatedAt,
			&clinic.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, clinic)
	}
	return result, rows.Err()
}
