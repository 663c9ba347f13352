package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eshaafi/appointment-service/internal/domain"
)

// DoctorFilter captures directory search parameters.
type DoctorFilter struct {
	Speciality *string
	Location   *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// DoctorRepository encapsulates doctor profile persistence.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *domain.Doctor) error
	Update(ctx context.Context, doctor *domain.Doctor) error
	GetByID(ctx context.Context, id int64) (*domain.Doctor, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Doctor, error)
	List(ctx context.Context, filter DoctorFilter) ([]domain.Doctor, error)
	ListByClinic(ctx context.Context, clinicID int64) ([]domain.Doctor, error)
	ListSpecialities(ctx context.Context) ([]string, error)
	SetRating(ctx context.Context, id int64, rating float64) error
}

type doctorRepository struct {
	pool *pgxpool.Pool
}

// NewDoctorRepository instantiates repository.
func NewDoctorRepository(pool *pgxpool.Pool) DoctorRepository {
	return &doctorRepository{pool: pool}
}

const doctorColumns = `id, user_id, name, speciality, location, bio, fee_pkr, rating, created_at, updated_at`

func (r *doctorRepository) Create(ctx context.Context, doctor *domain.Doctor) error {
	const query = `
        INSERT INTO doctors (user_id, name, speciality, location, bio, fee_pkr)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		doctor.UserID,
		doctor.Name,
		doctor.Speciality,
		doctor.Location,
		doctor.Bio,
		doctor.FeePKR,
	).Scan(&doctor.ID, &doctor.CreatedAt, &doctor.UpdatedAt)
}

func (r *doctorRepository) Update(ctx context.Context, doctor *domain.Doctor) error {
	const query = `
        UPDATE doctors SET name=$1, speciality=$2, location=$3, bio=$4, fee_pkr=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		doctor.Name,
		doctor.Speciality,
		doctor.Location,
		doctor.Bio,
		doctor.FeePKR,
		doctor.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *doctorRepository) GetByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	query := fmt.Sprintf(`SELECT %s FROM doctors WHERE id=$1`, doctorColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Doctor, error) {
	query := fmt.Sprintf(`SELECT %s FROM doctors WHERE user_id=$1`, doctorColumns)
	return r.fetchSingle(ctx, query, userID)
}

func (r *doctorRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Doctor, error) {
	var doctor domain.Doctor
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&doctor.ID,
		&doctor.UserID,
		&doctor.Name,
		&doctor.Speciality,
		&doctor.Location,
		&doctor.Bio,
		&doctor.FeePKR,
		&doctor.Rating,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context, filter DoctorFilter) ([]domain.Doctor, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Speciality != nil {
		args = append(args, *filter.Speciality)
		clauses = append(clauses, fmt.Sprintf("speciality=$%d", len(args)))
	}
	if filter.Location != nil {
		args = append(args, *filter.Location)
		clauses = append(clauses, fmt.Sprintf("location=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE %s OR LOWER(speciality) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM doctors WHERE %s ORDER BY rating DESC, name LIMIT %d OFFSET %d`,
		doctorColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDoctors(rows)
}

func (r *doctorRepository) ListByClinic(ctx context.Context, clinicID int64) ([]domain.Doctor, error) {
	query := fmt.Sprintf(`
        SELECT d.%s FROM doctors d
        JOIN affiliations a ON a.doctor_id = d.id
        WHERE a.clinic_id=$1 ORDER BY d.name`,
		strings.ReplaceAll(doctorColumns, ", ", ", d."))

	rows, err := r.pool.Query(ctx, query, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDoctors(rows)
}

func (r *doctorRepository) ListSpecialities(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT speciality FROM doctors WHERE speciality <> '' ORDER BY speciality`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *doctorRepository) SetRating(ctx context.Context, id int64, rating float64) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE doctors SET rating=$1, updated_at=NOW() WHERE id=$2`, rating, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanDoctors(rows pgx.Rows) ([]domain.Doctor, error) {
	var result []domain.Doctor
	for rows.Next() {
		var doctor domain.Doctor
		if err := rows.Scan(
			&doctor.ID,
			&doctor.UserID,
			&doctor.Name,
			&doctor.Speciality,
			&doctor.Location,
			&doctor.Bio,
			&doctor.FeePKR,
			&doctor.Rating,
			&doctor.CreatedAt,
			&doctor.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, doctor)
	}
	return result, rows.Err()
}
