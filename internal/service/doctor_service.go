package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/eshaafi/appointment-service/internal/auth"
	"github.com/eshaafi/appointment-service/internal/domain"
	"github.com/eshaafi/appointment-service/internal/repository"
	apperrors "github.com/eshaafi/appointment-service/pkg/util"
)

const (
	specialitiesCacheKey = "doctors:specialities"
	specialitiesCacheTTL = 5 * time.Minute
)

// DoctorService covers the doctor directory, profiles, availability and
// reviews.
type DoctorService struct {
	doctors      repository.DoctorRepository
	availability repository.AvailabilityRepository
	reviews      repository.ReviewRepository
	cache        *redis.Client
}

// DoctorDependencies bundles repositories for the doctor service.
type DoctorDependencies struct {
	DoctorRepo       repository.DoctorRepository
	AvailabilityRepo repository.AvailabilityRepository
	ReviewRepo       repository.ReviewRepository
	Cache            *redis.Client
}

// NewDoctorService constructs the service. Cache may be nil; lookups then go
// straight to the database.
func NewDoctorService(deps DoctorDependencies) *DoctorService {
	return &DoctorService{
		doctors:      deps.DoctorRepo,
		availability: deps.AvailabilityRepo,
		reviews:      deps.ReviewRepo,
		cache:        deps.Cache,
	}
}

// List returns the public doctor directory.
func (s *DoctorService) List(ctx context.Context, filter repository.DoctorFilter) ([]domain.Doctor, error) {
	doctors, err := s.doctors.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return doctors, nil
}

// Get returns a doctor's public profile.
func (s *DoctorService) Get(ctx context.Context, doctorID int64) (*domain.Doctor, error) {
	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("doctor", map[string]any{"doctor_id": doctorID})
		}
		return nil, apperrors.MapError(err)
	}
	return doctor, nil
}

// Specialities returns the distinct speciality list, cached briefly in Redis
// since the directory page hits it on every load.
func (s *DoctorService) Specialities(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, specialitiesCacheKey).Result(); err == nil {
			var cached []string
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}

	specialities, err := s.doctors.ListSpecialities(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(specialities); err == nil {
			s.cache.Set(ctx, specialitiesCacheKey, raw, specialitiesCacheTTL)
		}
	}
	return specialities, nil
}

// ProfileFor loads the doctor profile owned by the authenticated user.
func (s *DoctorService) ProfileFor(ctx context.Context, principal *auth.Principal) (*domain.Doctor, error) {
	doctor, err := s.doctors.GetByUserID(ctx, principal.SubjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("doctor profile", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return doctor, nil
}

// ProfileInput carries updatable profile fields.
type ProfileInput struct {
	Name       string
	Speciality string
	Location   string
	Bio        string
	FeePKR     int
}

// UpsertProfile creates or updates the caller's doctor profile. Profile
// changes invalidate the speciality cache.
func (s *DoctorService) UpsertProfile(ctx context.Context, principal *auth.Principal, input ProfileInput) (*domain.Doctor, error) {
	doctor, err := s.doctors.GetByUserID(ctx, principal.SubjectID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	if doctor == nil {
		doctor = &domain.Doctor{UserID: principal.SubjectID}
	}
	doctor.Name = strings.TrimSpace(input.Name)
	doctor.Speciality = strings.TrimSpace(input.Speciality)
	doctor.Location = strings.TrimSpace(input.Location)
	doctor.Bio = strings.TrimSpace(input.Bio)
	doctor.FeePKR = input.FeePKR

	if doctor.ID == 0 {
		err = s.doctors.Create(ctx, doctor)
	} else {
		err = s.doctors.Update(ctx, doctor)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.cache != nil {
		s.cache.Del(ctx, specialitiesCacheKey)
	}
	return doctor, nil
}

// SlotInput carries an availability opening.
type SlotInput struct {
	Weekday   int
	StartTime string
	EndTime   string
}

// Availability lists the doctor's weekly openings.
func (s *DoctorService) Availability(ctx context.Context, doctorID int64) ([]domain.AvailabilitySlot, error) {
	slots, err := s.availability.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return slots, nil
}

// AddSlot creates a weekly opening for the caller's profile.
func (s *DoctorService) AddSlot(ctx context.Context, principal *auth.Principal, input SlotInput) (*domain.AvailabilitySlot, error) {
	doctor, err := s.ProfileFor(ctx, principal)
	if err != nil {
		return nil, err
	}
	slot := &domain.AvailabilitySlot{
		DoctorID:  doctor.ID,
		Weekday:   input.Weekday,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
	}
	if err := s.availability.Create(ctx, slot); err != nil {
		return nil, apperrors.MapError(err)
	}
	return slot, nil
}

// UpdateSlot mutates one of the caller's openings; ownership is enforced by
// the doctor_id predicate in the update.
func (s *DoctorService) UpdateSlot(ctx context.Context, principal *auth.Principal, slotID int64, input SlotInput) (*domain.AvailabilitySlot, error) {
	doctor, err := s.ProfileFor(ctx, principal)
	if err != nil {
		return nil, err
	}
	slot := &domain.AvailabilitySlot{
		ID:        slotID,
		DoctorID:  doctor.ID,
		Weekday:   input.Weekday,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
	}
	if err := s.availability.Update(ctx, slot); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("availability slot", map[string]any{"slot_id": slotID})
		}
		return nil, apperrors.MapError(err)
	}
	return slot, nil
}

// DeleteSlot removes one of the caller's openings.
func (s *DoctorService) DeleteSlot(ctx context.Context, principal *auth.Principal, slotID int64) error {
	doctor, err := s.ProfileFor(ctx, principal)
	if err != nil {
		return err
	}
	if err := s.availability.Delete(ctx, slotID, doctor.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("availability slot", map[string]any{"slot_id": slotID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// ReviewInput carries patient feedback.
type ReviewInput struct {
	Rating  int
	Comment string
}

// AddReview records feedback and refreshes the doctor's aggregate rating.
func (s *DoctorService) AddReview(ctx context.Context, principal *auth.Principal, doctorID int64, input ReviewInput) (*domain.Review, error) {
	if _, err := s.Get(ctx, doctorID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		DoctorID: doctorID,
		AuthorID: principal.SubjectID,
		Rating:   input.Rating,
		Comment:  strings.TrimSpace(input.Comment),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, apperrors.MapError(err)
	}

	avg, err := s.reviews.AverageRating(ctx, doctorID)
	if err == nil {
		_ = s.doctors.SetRating(ctx, doctorID, avg)
	}
	return review, nil
}

// Reviews lists feedback for a doctor.
func (s *DoctorService) Reviews(ctx context.Context, doctorID int64, limit, offset int) ([]domain.Review, error) {
	reviews, err := s.reviews.ListByDoctor(ctx, doctorID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reviews, nil
}
