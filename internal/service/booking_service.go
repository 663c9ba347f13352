package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/eshaafi/appointment-service/internal/auth"
	"github.com/eshaafi/appointment-service/internal/domain"
	"github.com/eshaafi/appointment-service/internal/events"
	"github.com/eshaafi/appointment-service/internal/repository"
	apperrors "github.com/eshaafi/appointment-service/pkg/util"
)

// BookingService handles patient-facing appointment booking.
type BookingService struct {
	appointments repository.AppointmentRepository
	doctors      repository.DoctorRepository
	dispatcher   events.Dispatcher
}

// BookingDependencies bundles repositories for the booking service.
type BookingDependencies struct {
	AppointmentRepo repository.AppointmentRepository
	DoctorRepo      repository.DoctorRepository
	Dispatcher      events.Dispatcher
}

// NewBookingService constructs the service.
func NewBookingService(deps BookingDependencies) *BookingService {
	return &BookingService{
		appointments: deps.AppointmentRepo,
		doctors:      deps.DoctorRepo,
		dispatcher:   deps.Dispatcher,
	}
}

// BookInput describes a booking request.
type BookInput struct {
	DoctorID  int64
	StartsAt  time.Time
	VisitType domain.VisitType
	Notes     string
}

// Book creates an appointment. The store's partial unique index arbitrates
// concurrent bookings for the same slot; the loser gets a conflict. Video
// visits get a room code here; session provisioning is external.
func (s *BookingService) Book(ctx context.Context, principal *auth.Principal, input BookInput) (*domain.Appointment, error) {
	if _, err := s.doctors.GetByID(ctx, input.DoctorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("doctor", map[string]any{"doctor_id": input.DoctorID})
		}
		return nil, apperrors.MapError(err)
	}
	if input.StartsAt.Before(time.Now()) {
		return nil, apperrors.NewValidationError("appointment must be in the future", nil)
	}

	visitType := input.VisitType
	if visitType == "" {
		visitType = domain.VisitTypeInPerson
	}

	appt := &domain.Appointment{
		DoctorID:  input.DoctorID,
		PatientID: principal.SubjectID,
		StartsAt:  input.StartsAt,
		VisitType: visitType,
		Status:    domain.AppointmentStatusBooked,
		Notes:     input.Notes,
	}
	if visitType == domain.VisitTypeVideo {
		code := uuid.NewString()
		appt.RoomCode = &code
	}

	if err := s.appointments.Create(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, apperrors.NewConflict("slot already booked",
				map[string]any{"doctor_id": input.DoctorID, "starts_at": input.StartsAt})
		}
		return nil, apperrors.MapError(err)
	}

	s.publishBooking(ctx, events.EventAppointmentBooked, principal, appt)
	return appt, nil
}

// ListMine returns the caller's own bookings.
func (s *BookingService) ListMine(ctx context.Context, principal *auth.Principal, limit, offset int) ([]domain.Appointment, error) {
	appts, err := s.appointments.ListByPatient(ctx, principal.SubjectID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return appts, nil
}

// Cancel cancels one of the caller's bookings. Completed or already-cancelled
// appointments stay as they are.
func (s *BookingService) Cancel(ctx context.Context, principal *auth.Principal, appointmentID int64) (*domain.Appointment, error) {
	existing, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("appointment", map[string]any{"appointment_id": appointmentID})
		}
		return nil, apperrors.MapError(err)
	}
	if existing.PatientID != principal.SubjectID {
		return nil, apperrors.NewForbidden("not your appointment")
	}

	appt, err := s.appointments.UpdateStatus(ctx, appointmentID,
		[]domain.AppointmentStatus{domain.AppointmentStatusBooked, domain.AppointmentStatusConfirmed},
		domain.AppointmentStatusCancelled)
	if err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			return nil, apperrors.NewInvalidState("appointment cannot be cancelled",
				map[string]any{"appointment_id": appointmentID})
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("appointment", map[string]any{"appointment_id": appointmentID})
		}
		return nil, apperrors.MapError(err)
	}

	s.publishBooking(ctx, events.EventAppointmentCancelled, principal, appt)
	return appt, nil
}

// DoctorAppointments lists a doctor's schedule for the doctor dashboard.
func (s *BookingService) DoctorAppointments(ctx context.Context, principal *auth.Principal, limit, offset int) ([]domain.Appointment, error) {
	doctor, err := s.doctors.GetByUserID(ctx, principal.SubjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("doctor profile", nil)
		}
		return nil, apperrors.MapError(err)
	}
	appts, err := s.appointments.ListByDoctor(ctx, doctor.ID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return appts, nil
}

// SetAppointmentStatus lets the doctor confirm, complete or cancel an
// appointment on their own schedule.
func (s *BookingService) SetAppointmentStatus(ctx context.Context, principal *auth.Principal, appointmentID int64, to domain.AppointmentStatus) (*domain.Appointment, error) {
	doctor, err := s.doctors.GetByUserID(ctx, principal.SubjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("doctor profile", nil)
		}
		return nil, apperrors.MapError(err)
	}

	existing, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("appointment", map[string]any{"appointment_id": appointmentID})
		}
		return nil, apperrors.MapError(err)
	}
	if existing.DoctorID != doctor.ID {
		return nil, apperrors.NewForbidden("not your appointment")
	}

	var from []domain.AppointmentStatus
	switch to {
	case domain.AppointmentStatusConfirmed:
		from = []domain.AppointmentStatus{domain.AppointmentStatusBooked}
	case domain.AppointmentStatusCompleted:
		from = []domain.AppointmentStatus{domain.AppointmentStatusConfirmed}
	case domain.AppointmentStatusCancelled:
		from = []domain.AppointmentStatus{domain.AppointmentStatusBooked, domain.AppointmentStatusConfirmed}
	default:
		return nil, apperrors.NewValidationError("unsupported status transition", map[string]any{"status": to})
	}

	appt, err := s.appointments.UpdateStatus(ctx, appointmentID, from, to)
	if err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			return nil, apperrors.NewInvalidState("illegal appointment transition",
				map[string]any{"appointment_id": appointmentID, "to": to})
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("appointment", map[string]any{"appointment_id": appointmentID})
		}
		return nil, apperrors.MapError(err)
	}
	return appt, nil
}

func (s *BookingService) publishBooking(ctx context.Context, eventType events.EventType, principal *auth.Principal, appt *domain.Appointment) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actorOf(principal),
		Timestamp: time.Now(),
		Payload: events.AppointmentPayload{
			AppointmentID: appt.ID,
			DoctorID:      appt.DoctorID,
			PatientID:     appt.PatientID,
			StartsAt:      appt.StartsAt,
			VisitType:     appt.VisitType,
		},
	})
}
