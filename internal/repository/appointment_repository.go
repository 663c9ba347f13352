package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eshaafi/appointment-service/internal/domain"
)

// ErrSlotTaken is returned when another live booking already holds the
// doctor's slot. The partial unique index on (doctor_id, starts_at) is the
// serialization point for concurrent bookings.
var ErrSlotTaken = errors.New("slot already booked")

// AppointmentRepository encapsulates booking persistence.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) error
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]domain.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID int64, limit, offset int) ([]domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, from []domain.AppointmentStatus, to domain.AppointmentStatus) (*domain.Appointment, error)
}

type appointmentRepository struct {
	pool *pgxpool.Pool
}

// NewAppointmentRepository instantiates repository.
func NewAppointmentRepository(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepository{pool: pool}
}

const appointmentColumns = `id, doctor_id, patient_id, starts_at, visit_type, status, room_code, notes, created_at, updated_at`

func (r *appointmentRepository) Create(ctx context.Context, appt *domain.Appointment) error {
	const query = `
        INSERT INTO appointments (doctor_id, patient_id, starts_at, visit_type, status, room_code, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (doctor_id, starts_at) WHERE status <> 'CANCELLED' DO NOTHING
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		appt.DoctorID,
		appt.PatientID,
		appt.StartsAt,
		appt.VisitType,
		appt.Status,
		appt.RoomCode,
		appt.Notes,
	).Scan(&appt.ID, &appt.CreatedAt, &appt.UpdatedAt)
	if err == pgx.ErrNoRows {
		return ErrSlotTaken
	}
	return err
}

func (r *appointmentRepository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	const query = `SELECT ` + appointmentColumns + ` FROM appointments WHERE id=$1`

	var appt domain.Appointment
	if err := r.pool.QueryRow(ctx, query, id).Scan(appointmentTargets(&appt)...); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]domain.Appointment, error) {
	return r.list(ctx, `patient_id`, patientID, limit, offset)
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID int64, limit, offset int) ([]domain.Appointment, error) {
	return r.list(ctx, `doctor_id`, doctorID, limit, offset)
}

func (r *appointmentRepository) list(ctx context.Context, column string, id int64, limit, offset int) ([]domain.Appointment, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE ` + column + `=$1
        ORDER BY starts_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, id, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Appointment
	for rows.Next() {
		var appt domain.Appointment
		if err := rows.Scan(appointmentTargets(&appt)...); err != nil {
			return nil, err
		}
		result = append(result, appt)
	}
	return result, rows.Err()
}

// UpdateStatus transitions the appointment only when its current status is in
// the allowed set; the conditional update keeps concurrent transitions
// serialized the same way application decisions are.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id int64, from []domain.AppointmentStatus, to domain.AppointmentStatus) (*domain.Appointment, error) {
	fromStrs := make([]string, len(from))
	for i, s := range from {
		fromStrs[i] = string(s)
	}
	const query = `
        UPDATE appointments SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status = ANY($3)
        RETURNING ` + appointmentColumns

	var appt domain.Appointment
	err := r.pool.QueryRow(ctx, query, to, id, fromStrs).Scan(appointmentTargets(&appt)...)
	if err == nil {
		return &appt, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	var exists bool
	if checkErr := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM appointments WHERE id=$1)`, id).Scan(&exists); checkErr != nil {
		return nil, checkErr
	}
	if exists {
		return nil, ErrNotPending
	}
	return nil, pgx.ErrNoRows
}

func appointmentTargets(appt *domain.Appointment) []any {
	return []any{
		&appt.ID,
		&appt.DoctorID,
		&appt.PatientID,
		&appt.StartsAt,
		&appt.VisitType,
		&appt.Status,
		&appt.RoomCode,
		&appt.Notes,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	}
}
