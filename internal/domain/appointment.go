package domain

import "time"

// AppointmentStatus enumerates booking lifecycle states.
type AppointmentStatus string

const (
	AppointmentStatusBooked    AppointmentStatus = "BOOKED"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// VisitType distinguishes in-person and video appointments.
type VisitType string

const (
	VisitTypeInPerson VisitType = "IN_PERSON"
	VisitTypeVideo    VisitType = "VIDEO"
)

// AvailabilitySlot is a doctor's recurring weekly opening.
// Weekday follows time.Weekday numbering (Sunday = 0).
type AvailabilitySlot struct {
	ID        int64
	DoctorID  int64
	Weekday   int
	StartTime string
	EndTime   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Appointment is a patient booking against a doctor's schedule. RoomCode is
// set for video visits; session provisioning happens outside this service.
type Appointment struct {
	ID        int64
	DoctorID  int64
	PatientID int64
	StartsAt  time.Time
	VisitType VisitType
	Status    AppointmentStatus
	RoomCode  *string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
