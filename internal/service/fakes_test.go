package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/eshaafi/appointment-service/internal/domain"
	"github.com/eshaafi/appointment-service/internal/repository"
)

// In-memory repository fakes. The mutating fakes reproduce the store's
// conditional-update semantics so workflow races can be exercised without a
// database.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[int64]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeClinicRepo struct {
	mu      sync.Mutex
	nextID  int64
	clinics map[int64]*domain.Clinic
}

func newFakeClinicRepo() *fakeClinicRepo {
	return &fakeClinicRepo{nextID: 1, clinics: map[int64]*domain.Clinic{}}
}

func (r *fakeClinicRepo) Create(_ context.Context, clinic *domain.Clinic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clinic.ID = r.nextID
	r.nextID++
	clone := *clinic
	r.clinics[clinic.ID] = &clone
	return nil
}

func (r *fakeClinicRepo) GetByID(_ context.Context, id int64) (*domain.Clinic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clinic, ok := r.clinics[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *clinic
	return &clone, nil
}

func (r *fakeClinicRepo) List(_ context.Context, _, _ int) ([]domain.Clinic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Clinic
	for _, clinic := range r.clinics {
		if clinic.Active {
			result = append(result, *clinic)
		}
	}
	return result, nil
}

type fakeDoctorRepo struct {
	mu      sync.Mutex
	nextID  int64
	doctors map[int64]*domain.Doctor
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{nextID: 1, doctors: map[int64]*domain.Doctor{}}
}

func (r *fakeDoctorRepo) Create(_ context.Context, doctor *domain.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doctor.ID = r.nextID
	r.nextID++
	clone := *doctor
	r.doctors[doctor.ID] = &clone
	return nil
}

func (r *fakeDoctorRepo) Update(_ context.Context, doctor *domain.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.doctors[doctor.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *doctor
	r.doctors[doctor.ID] = &clone
	return nil
}

func (r *fakeDoctorRepo) GetByID(_ context.Context, id int64) (*domain.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doctor, ok := r.doctors[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *doctor
	return &clone, nil
}

func (r *fakeDoctorRepo) GetByUserID(_ context.Context, userID int64) (*domain.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, doctor := range r.doctors {
		if doctor.UserID == userID {
			clone := *doctor
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeDoctorRepo) List(_ context.Context, _ repository.DoctorFilter) ([]domain.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Doctor
	for _, doctor := range r.doctors {
		result = append(result, *doctor)
	}
	return result, nil
}

func (r *fakeDoctorRepo) ListByClinic(_ context.Context, _ int64) ([]domain.Doctor, error) {
	return nil, nil
}

func (r *fakeDoctorRepo) ListSpecialities(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]struct{}{}
	var result []string
	for _, doctor := range r.doctors {
		if doctor.Speciality == "" {
			continue
		}
		if _, ok := seen[doctor.Speciality]; ok {
			continue
		}
		seen[doctor.Speciality] = struct{}{}
		result = append(result, doctor.Speciality)
	}
	return result, nil
}

func (r *fakeDoctorRepo) SetRating(_ context.Context, id int64, rating float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doctor, ok := r.doctors[id]
	if !ok {
		return pgx.ErrNoRows
	}
	doctor.Rating = rating
	return nil
}

type fakeAvailabilityRepo struct {
	mu     sync.Mutex
	nextID int64
	slots  map[int64]*domain.AvailabilitySlot
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{nextID: 1, slots: map[int64]*domain.AvailabilitySlot{}}
}

func (r *fakeAvailabilityRepo) Create(_ context.Context, slot *domain.AvailabilitySlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot.ID = r.nextID
	r.nextID++
	slot.CreatedAt = time.Now()
	slot.UpdatedAt = slot.CreatedAt
	clone := *slot
	r.slots[slot.ID] = &clone
	return nil
}

func (r *fakeAvailabilityRepo) Update(_ context.Context, slot *domain.AvailabilitySlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.slots[slot.ID]
	if !ok || existing.DoctorID != slot.DoctorID {
		return pgx.ErrNoRows
	}
	slot.UpdatedAt = time.Now()
	clone := *slot
	r.slots[slot.ID] = &clone
	return nil
}

func (r *fakeAvailabilityRepo) Delete(_ context.Context, id, doctorID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.slots[id]
	if !ok || existing.DoctorID != doctorID {
		return pgx.ErrNoRows
	}
	delete(r.slots, id)
	return nil
}

func (r *fakeAvailabilityRepo) GetByID(_ context.Context, id int64) (*domain.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *slot
	return &clone, nil
}

func (r *fakeAvailabilityRepo) ListByDoctor(_ context.Context, doctorID int64) ([]domain.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.AvailabilitySlot
	for _, slot := range r.slots {
		if slot.DoctorID == doctorID {
			result = append(result, *slot)
		}
	}
	return result, nil
}

type fakeApplicationRepo struct {
	mu     sync.Mutex
	nextID int64
	apps   map[int64]*domain.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{nextID: 1, apps: map[int64]*domain.Application{}}
}

func (r *fakeApplicationRepo) Create(_ context.Context, app *domain.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	app.ID = r.nextID
	r.nextID++
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	clone := *app
	r.apps[app.ID] = &clone
	return nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id int64) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *app
	return &clone, nil
}

func (r *fakeApplicationRepo) ListByClinic(_ context.Context, clinicID int64, statuses []domain.ApplicationStatus) ([]domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Application
	for _, app := range r.apps {
		if app.ClinicID != clinicID {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, s := range statuses {
				if app.Status == s {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		result = append(result, *app)
	}
	return result, nil
}

func (r *fakeApplicationRepo) ListByStatus(_ context.Context, status domain.ApplicationStatus, _ int) ([]domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Application
	for _, app := range r.apps {
		if app.Status == status {
			result = append(result, *app)
		}
	}
	return result, nil
}

// Decide mirrors the conditional UPDATE: the PENDING check and the mutation
// happen under one lock, so concurrent deciders serialize here exactly like
// rows do in Postgres.
func (r *fakeApplicationRepo) Decide(_ context.Context, id int64, status domain.ApplicationStatus, decidedBy int64) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if app.Status != domain.ApplicationStatusPending {
		return nil, repository.ErrNotPending
	}
	now := time.Now()
	app.Status = status
	app.DecidedBy = &decidedBy
	app.DecidedAt = &now
	app.UpdatedAt = now
	clone := *app
	return &clone, nil
}

type fakeAffiliationRepo struct {
	mu     sync.Mutex
	nextID int64
	affs   map[int64]*domain.Affiliation
}

func newFakeAffiliationRepo() *fakeAffiliationRepo {
	return &fakeAffiliationRepo{nextID: 1, affs: map[int64]*domain.Affiliation{}}
}

func (r *fakeAffiliationRepo) Create(_ context.Context, aff *domain.Affiliation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.affs {
		if existing.DoctorID == aff.DoctorID && existing.ClinicID == aff.ClinicID {
			return nil
		}
	}
	aff.ID = r.nextID
	r.nextID++
	aff.CreatedAt = time.Now()
	clone := *aff
	r.affs[aff.ID] = &clone
	return nil
}

func (r *fakeAffiliationRepo) Exists(_ context.Context, doctorID, clinicID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, aff := range r.affs {
		if aff.DoctorID == doctorID && aff.ClinicID == clinicID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAffiliationRepo) Delete(_ context.Context, doctorID, clinicID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, aff := range r.affs {
		if aff.DoctorID == doctorID && aff.ClinicID == clinicID {
			delete(r.affs, id)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeAppointmentRepo struct {
	mu     sync.Mutex
	nextID int64
	appts  map[int64]*domain.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{nextID: 1, appts: map[int64]*domain.Appointment{}}
}

// Create mirrors the partial unique index on (doctor_id, starts_at).
func (r *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.appts {
		if existing.DoctorID == appt.DoctorID &&
			existing.StartsAt.Equal(appt.StartsAt) &&
			existing.Status != domain.AppointmentStatusCancelled {
			return repository.ErrSlotTaken
		}
	}
	appt.ID = r.nextID
	r.nextID++
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt
	clone := *appt
	r.appts[appt.ID] = &clone
	return nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.appts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *appt
	return &clone, nil
}

func (r *fakeAppointmentRepo) ListByPatient(_ context.Context, patientID int64, _, _ int) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Appointment
	for _, appt := range r.appts {
		if appt.PatientID == patientID {
			result = append(result, *appt)
		}
	}
	return result, nil
}

func (r *fakeAppointmentRepo) ListByDoctor(_ context.Context, doctorID int64, _, _ int) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Appointment
	for _, appt := range r.appts {
		if appt.DoctorID == doctorID {
			result = append(result, *appt)
		}
	}
	return result, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(_ context.Context, id int64, from []domain.AppointmentStatus, to domain.AppointmentStatus) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.appts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	allowed := false
	for _, s := range from {
		if appt.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, repository.ErrNotPending
	}
	appt.Status = to
	appt.UpdatedAt = time.Now()
	clone := *appt
	return &clone, nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	nextID  int64
	reviews map[int64]*domain.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{nextID: 1, reviews: map[int64]*domain.Review{}}
}

func (r *fakeReviewRepo) Create(_ context.Context, review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	review.ID = r.nextID
	r.nextID++
	review.CreatedAt = time.Now()
	clone := *review
	r.reviews[review.ID] = &clone
	return nil
}

func (r *fakeReviewRepo) ListByDoctor(_ context.Context, doctorID int64, _, _ int) ([]domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Review
	for _, review := range r.reviews {
		if review.DoctorID == doctorID {
			result = append(result, *review)
		}
	}
	return result, nil
}

func (r *fakeReviewRepo) AverageRating(_ context.Context, doctorID int64) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum, count float64
	for _, review := range r.reviews {
		if review.DoctorID == doctorID {
			sum += float64(review.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return sum / count, nil
}

type fakeDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{revoked: map[string]time.Time{}}
}

func (d *fakeDenylist) Revoke(_ context.Context, jti string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[jti] = until
	return nil
}

func (d *fakeDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	until, ok := d.revoked[jti]
	return ok && time.Now().Before(until), nil
}
