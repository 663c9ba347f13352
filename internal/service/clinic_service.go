package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/eshaafi/appointment-service/internal/domain"
	"github.com/eshaafi/appointment-service/internal/repository"
	apperrors "github.com/eshaafi/appointment-service/pkg/util"
)

// ClinicService serves the public clinic surface.
type ClinicService struct {
	clinics repository.ClinicRepository
	doctors repository.DoctorRepository
}

// NewClinicService constructs the service.
func NewClinicService(clinics repository.ClinicRepository, doctors repository.DoctorRepository) *ClinicService {
	return &ClinicService{clinics: clinics, doctors: doctors}
}

// List returns active clinics.
func (s *ClinicService) List(ctx context.Context, limit, offset int) ([]domain.Clinic, error) {
	clinics, err := s.clinics.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return clinics, nil
}

// Get returns one clinic.
func (s *ClinicService) Get(ctx context.Context, clinicID int64) (*domain.Clinic, error) {
	clinic, err := s.clinics.GetByID(ctx, clinicID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("clinic", map[string]any{"clinic_id": clinicID})
		}
		return nil, apperrors.MapError(err)
	}
	return clinic, nil
}

// Doctors returns the clinic's affiliated roster.
func (s *ClinicService) Doctors(ctx context.Context, clinicID int64) ([]domain.Doctor, error) {
	if _, err := s.Get(ctx, clinicID); err != nil {
		return nil, err
	}
	doctors, err := s.doctors.ListByClinic(ctx, clinicID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return doctors, nil
}
