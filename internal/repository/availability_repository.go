package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eshaafi/appointment-service/internal/domain"
)

// AvailabilityRepository manages doctors' weekly openings.
type AvailabilityRepository interface {
	Create(ctx context.Context, slot *domain.AvailabilitySlot) error
	Update(ctx context.Context, slot *domain.AvailabilitySlot) error
	Delete(ctx context.Context, id, doctorID int64) error
	GetByID(ctx context.Context, id int64) (*domain.AvailabilitySlot, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]domain.AvailabilitySlot, error)
}

type availabilityRepository struct {
	pool *pgxpool.Pool
}

// NewAvailabilityRepository instantiates repository.
func NewAvailabilityRepository(pool *pgxpool.Pool) AvailabilityRepository {
	return &availabilityRepository{pool: pool}
}

func (r *availabilityRepository) Create(ctx context.Context, slot *domain.AvailabilitySlot) error {
	const query = `
        INSERT INTO availability_slots (doctor_id, weekday, start_time, end_time)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		slot.DoctorID,
		slot.Weekday,
		slot.StartTime,
		slot.EndTime,
	).Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)
}

func (r *availabilityRepository) Update(ctx context.Context, slot *domain.AvailabilitySlot) error {
	const query = `
        UPDATE availability_slots SET weekday=$1, start_time=$2, end_time=$3, updated_at=NOW()
        WHERE id=$4 AND doctor_id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		slot.Weekday,
		slot.StartTime,
		slot.EndTime,
		slot.ID,
		slot.DoctorID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *availabilityRepository) Delete(ctx context.Context, id, doctorID int64) error {
	cmd, err := r.pool.Exec(ctx,
		`DELETE FROM availability_slots WHERE id=$1 AND doctor_id=$2`, id, doctorID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *availabilityRepository) GetByID(ctx context.Context, id int64) (*domain.AvailabilitySlot, error) {
	const query = `
        SELECT id, doctor_id, weekday, start_time, end_time, created_at, updated_at
        FROM availability_slots WHERE id=$1`

	var slot domain.AvailabilitySlot
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&slot.ID,
		&slot.DoctorID,
		&slot.Weekday,
		&slot.StartTime,
		&slot.EndTime,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *availabilityRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]domain.AvailabilitySlot, error) {
	const query = `
        SELECT id, doctor_id, weekday, start_time, end_time, created_at, updated_at
        FROM availability_slots WHERE doctor_id=$1 ORDER BY weekday, start_time`

	rows, err := r.pool.Query(ctx, query, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AvailabilitySlot
	for rows.Next() {
		var slot domain.AvailabilitySlot
		if err := rows.Scan(
			&slot.ID,
			&slot.DoctorID,
			&slot.Weekday,
			&slot.StartTime,
			&slot.EndTime,
			&slot.CreatedAt,
			&slot.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, slot)
	}
	return result, rows.Err()
}
