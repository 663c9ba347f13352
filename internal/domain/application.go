package domain

import "time"

// ApplicationStatus enumerates the doctor-application lifecycle. APPROVED and
// REJECTED are terminal.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "PENDING"
	ApplicationStatusApproved ApplicationStatus = "APPROVED"
	ApplicationStatusRejected ApplicationStatus = "REJECTED"
)

// Terminal reports whether no further transition is permitted.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

// Application is a doctor's request to affiliate with a clinic. DoctorID is
// set when an existing doctor account applied; otherwise the contact fields
// identify the candidate and an account is created on approval.
type Application struct {
	ID         int64
	ClinicID   int64
	DoctorID   *int64
	Name       string
	Email      string
	Phone      *string
	Speciality string
	Location   string
	Status     ApplicationStatus
	DecidedBy  *int64
	DecidedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
