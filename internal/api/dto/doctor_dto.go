package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/eshaafi/appointment-service/internal/domain"
)

// DoctorProfileRequest payload for PUT /api/doctor/profile.
type DoctorProfileRequest struct {
	Name       string `json:"name"`
	Speciality string `json:"speciality"`
	Location   string `json:"location"`
	Bio        string `json:"bio"`
	FeePKR     int    `json:"fee_pkr"`
}

// Validate enforces field constraints.
func (r DoctorProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.Speciality, validation.Required, validation.Length(1, 80)),
		validation.Field(&r.Location, validation.Length(0, 120)),
		validation.Field(&r.FeePKR, validation.Min(0)),
	)
}

// SlotRequest payload for availability openings.
type SlotRequest struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Validate enforces field constraints. Times are HH:MM.
func (r SlotRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Weekday, validation.Min(0), validation.Max(6)),
		validation.Field(&r.StartTime, validation.Required, validation.Date("15:04")),
		validation.Field(&r.EndTime, validation.Required, validation.Date("15:04")),
	)
}

// ReviewRequest payload for POST /api/doctor/:doctorId/reviews.
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Validate enforces field constraints.
func (r ReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Comment, validation.Length(0, 2000)),
	)
}

// DoctorResponse is the public doctor shape.
type DoctorResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Speciality string  `json:"speciality"`
	Location   string  `json:"location"`
	Bio        string  `json:"bio"`
	FeePKR     int     `json:"fee_pkr"`
	Rating     float64 `json:"rating"`
}

// NewDoctorResponse maps the domain model.
func NewDoctorResponse(doctor *domain.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:         doctor.ID,
		Name:       doctor.Name,
		Speciality: doctor.Speciality,
		Location:   doctor.Location,
		Bio:        doctor.Bio,
		FeePKR:     doctor.FeePKR,
		Rating:     doctor.Rating,
	}
}

// SlotResponse is the availability opening shape.
type SlotResponse struct {
	ID        int64  `json:"id"`
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// NewSlotResponse maps the domain model.
func NewSlotResponse(slot *domain.AvailabilitySlot) SlotResponse {
	return SlotResponse{
		ID:        slot.ID,
		Weekday:   slot.Weekday,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
	}
}

// ReviewResponse is the review shape.
type ReviewResponse struct {
	ID        int64     `json:"id"`
	DoctorID  int64     `json:"doctor_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// NewReviewResponse maps the domain model.
func NewReviewResponse(review *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID,
		DoctorID:  review.DoctorID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}
