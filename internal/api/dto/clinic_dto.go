package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/eshaafi/appointment-service/internal/domain"
)

// ApplicationRequest is the public doctor-application intake payload.
type ApplicationRequest struct {
	ClinicID   int64   `json:"clinic_id"`
	DoctorID   *int64  `json:"doctor_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone"`
	Speciality string  `json:"speciality"`
	Location   string  `json:"location"`
}

// Validate enforces field constraints.
func (r ApplicationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ClinicID, validation.Required, validation.Min(1)),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Speciality, validation.Required, validation.Length(1, 80)),
		validation.Field(&r.Location, validation.Length(0, 120)),
	)
}

// ApplicationResponse is the application shape.
type ApplicationResponse struct {
	ID         int64                    `json:"id"`
	ClinicID   int64                    `json:"clinic_id"`
	DoctorID   *int64                   `json:"doctor_id,omitempty"`
	Name       string                   `json:"name"`
	Email      string                   `json:"email"`
	Speciality string                   `json:"speciality"`
	Location   string                   `json:"location"`
	Status     domain.ApplicationStatus `json:"status"`
	DecidedAt  *time.Time               `json:"decided_at,omitempty"`
	CreatedAt  time.Time                `json:"created_at"`
}

// NewApplicationResponse maps the domain model.
func NewApplicationResponse(app *domain.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:         app.ID,
		ClinicID:   app.ClinicID,
		DoctorID:   app.DoctorID,
		Name:       app.Name,
		Email:      app.Email,
		Speciality: app.Speciality,
		Location:   app.Location,
		Status:     app.Status,
		DecidedAt:  app.DecidedAt,
		CreatedAt:  app.CreatedAt,
	}
}

// ClinicResponse is the public clinic shape.
type ClinicResponse struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	City    string  `json:"city"`
	Phone   *string `json:"phone,omitempty"`
}

// NewClinicResponse maps the domain model.
func NewClinicResponse(clinic *domain.Clinic) ClinicResponse {
	return ClinicResponse{
		ID:      clinic.ID,
		Name:    clinic.Name,
		Address: clinic.Address,
		City:    clinic.City,
		Phone:   clinic.Phone,
	}
}
