package domain

import "time"

// Doctor is the public profile attached to a DOCTOR user account.
type Doctor struct {
	ID         int64
	UserID     int64
	Name       string
	Speciality string
	Location   string
	Bio        string
	FeePKR     int
	Rating     float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Affiliation links a doctor to a clinic. Created when an application is
// approved, deleted when the clinic removes the doctor.
type Affiliation struct {
	ID        int64
	DoctorID  int64
	ClinicID  int64
	CreatedAt time.Time
}

// Review is patient feedback on a doctor.
type Review struct {
	ID        int64
	DoctorID  int64
	AuthorID  int64
	Rating    int
	Comment   string
	CreatedAt time.Time
}
