package events

import (
	"time"

	"github.com/eshaafi/appointment-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventApplicationSubmitted EventType = "application_submitted"
	EventApplicationApproved  EventType = "application_approved"
	EventApplicationRejected  EventType = "application_rejected"
	EventDoctorRemoved        EventType = "doctor_removed"
	EventAppointmentBooked    EventType = "appointment_booked"
	EventAppointmentCancelled EventType = "appointment_cancelled"
)

// Actor encapsulates actor metadata for an event. SubjectID is zero for
// anonymous intake events.
type Actor struct {
	SubjectID int64       `json:"subject_id,omitempty"`
	Role      domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ApplicationPayload describes application lifecycle events.
type ApplicationPayload struct {
	ApplicationID int64                    `json:"application_id"`
	ClinicID      int64                    `json:"clinic_id"`
	Speciality    string                   `json:"speciality"`
	Status        domain.ApplicationStatus `json:"status"`
}

// DoctorRemovedPayload describes affiliation removal.
type DoctorRemovedPayload struct {
	DoctorID int64 `json:"doctor_id"`
	ClinicID int64 `json:"clinic_id"`
}

// AppointmentPayload describes booking lifecycle events.
type AppointmentPayload struct {
	AppointmentID int64            `json:"appointment_id"`
	DoctorID      int64            `json:"doctor_id"`
	PatientID     int64            `json:"patient_id"`
	StartsAt      time.Time        `json:"starts_at"`
	VisitType     domain.VisitType `json:"visit_type"`
}
