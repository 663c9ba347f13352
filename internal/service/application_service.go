package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/eshaafi/appointment-service/internal/auth"
	"github.com/eshaafi/appointment-service/internal/config"
	"github.com/eshaafi/appointment-service/internal/domain"
	"github.com/eshaafi/appointment-service/internal/events"
	"github.com/eshaafi/appointment-service/internal/repository"
	apperrors "github.com/eshaafi/appointment-service/pkg/util"
)

// ApplicationService runs the clinic doctor-application workflow:
// PENDING -> APPROVED | REJECTED, terminal once decided.
type ApplicationService struct {
	applications repository.ApplicationRepository
	clinics      repository.ClinicRepository
	affiliations repository.AffiliationRepository
	doctors      repository.DoctorRepository
	users        repository.UserRepository
	dispatcher   events.Dispatcher
	bcryptCost   int
}

// ApplicationDependencies bundles repositories for the workflow.
type ApplicationDependencies struct {
	ApplicationRepo repository.ApplicationRepository
	ClinicRepo      repository.ClinicRepository
	AffiliationRepo repository.AffiliationRepository
	DoctorRepo      repository.DoctorRepository
	UserRepo        repository.UserRepository
	Dispatcher      events.Dispatcher
}

// NewApplicationService constructs the service.
func NewApplicationService(cfg config.Config, deps ApplicationDependencies) *ApplicationService {
	return &ApplicationService{
		applications: deps.ApplicationRepo,
		clinics:      deps.ClinicRepo,
		affiliations: deps.AffiliationRepo,
		doctors:      deps.DoctorRepo,
		users:        deps.UserRepo,
		dispatcher:   deps.Dispatcher,
		bcryptCost:   cfg.Auth.BcryptCost,
	}
}

// SubmitInput describes the public intake payload.
type SubmitInput struct {
	ClinicID   int64
	DoctorID   *int64
	Name       string
	Email      string
	Phone      *string
	Speciality string
	Location   string
}

// Submit records a new PENDING application. No authentication required; the
// target clinic must exist and be active.
func (s *ApplicationService) Submit(ctx context.Context, input SubmitInput) (*domain.Application, error) {
	clinic, err := s.clinics.GetByID(ctx, input.ClinicID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("clinic", map[string]any{"clinic_id": input.ClinicID})
		}
		return nil, apperrors.MapError(err)
	}
	if !clinic.Active {
		return nil, apperrors.NewNotFound("clinic", map[string]any{"clinic_id": input.ClinicID})
	}

	if input.DoctorID != nil {
		if _, err := s.doctors.GetByID(ctx, *input.DoctorID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("doctor", map[string]any{"doctor_id": *input.DoctorID})
			}
			return nil, apperrors.MapError(err)
		}
	}

	app := &domain.Application{
		ClinicID:   input.ClinicID,
		DoctorID:   input.DoctorID,
		Name:       strings.TrimSpace(input.Name),
		Email:      strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:      input.Phone,
		Speciality: strings.TrimSpace(input.Speciality),
		Location:   strings.TrimSpace(input.Location),
		Status:     domain.ApplicationStatusPending,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventApplicationSubmitted, events.Actor{}, app)
	return app, nil
}

// List returns a clinic's applications, newest first. The caller must be a
// clinic admin of that clinic or a super admin; route gating already filtered
// roles, but tenancy is re-checked here because the server is the sole
// authority.
func (s *ApplicationService) List(ctx context.Context, principal *auth.Principal, clinicID int64, statuses []domain.ApplicationStatus) ([]domain.Application, error) {
	if err := s.authorizeClinicAccess(ctx, principal, clinicID); err != nil {
		return nil, err
	}
	apps, err := s.applications.ListByClinic(ctx, clinicID, statuses)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return apps, nil
}

// Approve transitions a PENDING application to APPROVED and creates the
// doctor-clinic affiliation. Deciding a terminal application fails with a
// conflict; concurrent decisions are serialized by the store's conditional
// update so exactly one wins.
func (s *ApplicationService) Approve(ctx context.Context, principal *auth.Principal, applicationID int64) (*domain.Application, error) {
	app, err := s.decide(ctx, principal, applicationID, domain.ApplicationStatusApproved)
	if err != nil {
		return nil, err
	}

	doctorID, err := s.ensureDoctor(ctx, app)
	if err != nil {
		return nil, err
	}
	aff := &domain.Affiliation{DoctorID: doctorID, ClinicID: app.ClinicID}
	if err := s.affiliations.Create(ctx, aff); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventApplicationApproved, actorOf(principal), app)
	return app, nil
}

// Reject transitions a PENDING application to REJECTED under the same
// PENDING-only guard as Approve. No affiliation side effect.
func (s *ApplicationService) Reject(ctx context.Context, principal *auth.Principal, applicationID int64) (*domain.Application, error) {
	app, err := s.decide(ctx, principal, applicationID, domain.ApplicationStatusRejected)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventApplicationRejected, actorOf(principal), app)
	return app, nil
}

// RemoveDoctor deletes the doctor's affiliation with the caller's clinic.
// Historical applications are an immutable audit trail and stay untouched.
func (s *ApplicationService) RemoveDoctor(ctx context.Context, principal *auth.Principal, doctorID, clinicID int64) error {
	if err := s.authorizeClinicAccess(ctx, principal, clinicID); err != nil {
		return err
	}
	if err := s.affiliations.Delete(ctx, doctorID, clinicID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("affiliation", map[string]any{"doctor_id": doctorID, "clinic_id": clinicID})
		}
		return apperrors.MapError(err)
	}
	s.dispatch(ctx, events.Event{
		Type:      events.EventDoctorRemoved,
		Actor:     actorOf(principal),
		Timestamp: time.Now(),
		Payload:   events.DoctorRemovedPayload{DoctorID: doctorID, ClinicID: clinicID},
	})
	return nil
}

func (s *ApplicationService) decide(ctx context.Context, principal *auth.Principal, applicationID int64, status domain.ApplicationStatus) (*domain.Application, error) {
	existing, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("application", map[string]any{"application_id": applicationID})
		}
		return nil, apperrors.MapError(err)
	}
	if err := s.authorizeClinicAccess(ctx, principal, existing.ClinicID); err != nil {
		return nil, err
	}

	app, err := s.applications.Decide(ctx, applicationID, status, principal.SubjectID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotPending):
			return nil, apperrors.NewInvalidState("application already decided",
				map[string]any{"application_id": applicationID})
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.NewNotFound("application", map[string]any{"application_id": applicationID})
		default:
			return nil, apperrors.MapError(err)
		}
	}
	return app, nil
}

// ensureDoctor resolves the doctor account for an approved application,
// creating the account and profile for external candidates. The generated
// password is unusable until reset through the normal flow.
func (s *ApplicationService) ensureDoctor(ctx context.Context, app *domain.Application) (int64, error) {
	if app.DoctorID != nil {
		return *app.DoctorID, nil
	}

	if user, err := s.users.GetByEmail(ctx, app.Email); err == nil {
		if doctor, derr := s.doctors.GetByUserID(ctx, user.ID); derr == nil {
			return doctor.ID, nil
		}
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return 0, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(uuid.NewString(), s.bcryptCost)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	user := &domain.User{
		Name:         app.Name,
		Email:        app.Email,
		PasswordHash: hash,
		Role:         domain.RoleDoctor,
		Phone:        app.Phone,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return 0, apperrors.MapError(err)
	}

	doctor := &domain.Doctor{
		UserID:     user.ID,
		Name:       app.Name,
		Speciality: app.Speciality,
		Location:   app.Location,
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return 0, apperrors.MapError(err)
	}
	return doctor.ID, nil
}

// authorizeClinicAccess enforces tenancy: super admins pass, clinic admins
// only for their own clinic.
func (s *ApplicationService) authorizeClinicAccess(ctx context.Context, principal *auth.Principal, clinicID int64) error {
	if principal == nil {
		return apperrors.NewNoCredential()
	}
	switch principal.Role {
	case domain.RoleSuperAdmin:
		return nil
	case domain.RoleClinicAdmin:
		user, err := s.users.GetByID(ctx, principal.SubjectID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewForbidden("unknown clinic admin")
			}
			return apperrors.MapError(err)
		}
		if user.ClinicID == nil || *user.ClinicID != clinicID {
			return apperrors.NewForbidden("clinic admin of a different clinic")
		}
		return nil
	default:
		return apperrors.NewForbidden("clinic admin role required")
	}
}

func (s *ApplicationService) publish(ctx context.Context, eventType events.EventType, actor events.Actor, app *domain.Application) {
	s.dispatch(ctx, events.Event{
		Type:      eventType,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload: events.ApplicationPayload{
			ApplicationID: app.ID,
			ClinicID:      app.ClinicID,
			Speciality:    app.Speciality,
			Status:        app.Status,
		},
	})
}

func (s *ApplicationService) dispatch(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	_ = s.dispatcher.Publish(ctx, event)
}

func actorOf(principal *auth.Principal) events.Actor {
	if principal == nil {
		return events.Actor{}
	}
	return events.Actor{SubjectID: principal.SubjectID, Role: principal.Role}
}
