package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eshaafi/appointment-service/internal/domain"
)

// ErrNotPending is returned by Decide when the application exists but has
// already reached a terminal status. The data store's conditional update
// serializes concurrent decisions: only the first transition from PENDING
// wins.
var ErrNotPending = errors.New("application not pending")

// ApplicationRepository encapsulates clinic application persistence.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id int64) (*domain.Application, error)
	ListByClinic(ctx context.Context, clinicID int64, statuses []domain.ApplicationStatus) ([]domain.Application, error)
	ListByStatus(ctx context.Context, status domain.ApplicationStatus, limit int) ([]domain.Application, error)
	Decide(ctx context.Context, id int64, status domain.ApplicationStatus, decidedBy int64) (*domain.Application, error)
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository instantiates repository.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

const applicationColumns = `id, clinic_id, doctor_id, name, email, phone, speciality, location,
               status, decided_by, decided_at, created_at, updated_at`

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	const query = `
        INSERT INTO clinic_applications (clinic_id, doctor_id, name, email, phone, speciality, location, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		app.ClinicID,
		app.DoctorID,
		app.Name,
		app.Email,
		app.Phone,
		app.Speciality,
		app.Location,
		app.Status,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
}

func (r *applicationRepository) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	const query = `
        SELECT ` + applicationColumns + `
        FROM clinic_applications WHERE id=$1`

	var app domain.Application
	if err := r.pool.QueryRow(ctx, query, id).Scan(scanTargets(&app)...); err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) ListByClinic(ctx context.Context, clinicID int64, statuses []domain.ApplicationStatus) ([]domain.Application, error) {
	query := `
        SELECT ` + applicationColumns + `
        FROM clinic_applications WHERE clinic_id=$1`
	args := []any{clinicID}

	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		strs := make([]string, len(statuses))
		for i, s := range statuses {
			strs[i] = string(s)
		}
		args = append(args, strs)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (r *applicationRepository) ListByStatus(ctx context.Context, status domain.ApplicationStatus, limit int) ([]domain.Application, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
        SELECT ` + applicationColumns + `
        FROM clinic_applications WHERE status=$1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

// Decide performs the PENDING-only transition atomically. The WHERE clause is
// the serialization point: of two concurrent decisions exactly one matches a
// PENDING row. The loser gets ErrNotPending when the row exists, ErrNoRows
// when it never did.
func (r *applicationRepository) Decide(ctx context.Context, id int64, status domain.ApplicationStatus, decidedBy int64) (*domain.Application, error) {
	const query = `
        UPDATE clinic_applications
        SET status=$1, decided_by=$2, decided_at=NOW(), updated_at=NOW()
        WHERE id=$3 AND status='PENDING'
        RETURNING ` + applicationColumns

	var app domain.Application
	err := r.pool.QueryRow(ctx, query, status, decidedBy, id).Scan(scanTargets(&app)...)
	if err == nil {
		return &app, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	var exists bool
	if checkErr := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM clinic_applications WHERE id=$1)`, id).Scan(&exists); checkErr != nil {
		return nil, checkErr
	}
	if exists {
		return nil, ErrNotPending
	}
	return nil, pgx.ErrNoRows
}

func scanTargets(app *domain.Application) []any {
	return []any{
		&app.ID,
		&app.ClinicID,
		&app.DoctorID,
		&app.Name,
		&app.Email,
		&app.Phone,
		&app.Speciality,
		&app.Location,
		&app.Status,
		&app.DecidedBy,
		&app.DecidedAt,
		&app.CreatedAt,
		&app.UpdatedAt,
	}
}

func scanApplications(rows pgx.Rows) ([]domain.Application, error) {
	var result []domain.Application
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(scanTargets(&app)...); err != nil {
			return nil, err
		}
		result = append(result, app)
	}
	return result, rows.Err()
}
