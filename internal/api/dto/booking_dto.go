package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/eshaafi/appointment-service/internal/domain"
)

// BookRequest payload for POST /api/bookings.
type BookRequest struct {
	DoctorID  int64            `json:"doctor_id"`
	StartsAt  time.Time        `json:"starts_at"`
	VisitType domain.VisitType `json:"visit_type"`
	Notes     string           `json:"notes"`
}

// Validate enforces field constraints.
func (r BookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DoctorID, validation.Required, validation.Min(1)),
		validation.Field(&r.StartsAt, validation.Required),
		validation.Field(&r.VisitType, validation.In(
			domain.VisitTypeInPerson, domain.VisitTypeVideo, domain.VisitType(""))),
		validation.Field(&r.Notes, validation.Length(0, 2000)),
	)
}

// AppointmentStatusRequest payload for doctor-side status changes.
type AppointmentStatusRequest struct {
	Status domain.AppointmentStatus `json:"status"`
}

// Validate enforces field constraints.
func (r AppointmentStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In(
			domain.AppointmentStatusConfirmed,
			domain.AppointmentStatusCompleted,
			domain.AppointmentStatusCancelled)),
	)
}

// AppointmentResponse is the booking shape.
type AppointmentResponse struct {
	ID        int64                    `json:"id"`
	DoctorID  int64                    `json:"doctor_id"`
	PatientID int64                    `json:"patient_id"`
	StartsAt  time.Time                `json:"starts_at"`
	VisitType domain.VisitType         `json:"visit_type"`
	Status    domain.AppointmentStatus `json:"status"`
	RoomCode  *string                  `json:"room_code,omitempty"`
	Notes     string                   `json:"notes,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
}

// NewAppointmentResponse maps the domain model.
func NewAppointmentResponse(appt *domain.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:        appt.ID,
		DoctorID:  appt.DoctorID,
		PatientID: appt.PatientID,
		StartsAt:  appt.StartsAt,
		VisitType: appt.VisitType,
		Status:    appt.Status,
		RoomCode:  appt.RoomCode,
		Notes:     appt.Notes,
		CreatedAt: appt.CreatedAt,
	}
}
