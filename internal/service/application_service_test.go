package service

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/eshaafi/appointment-service/internal/auth"
	"github.com/eshaafi/appointment-service/internal/config"
	"github.com/eshaafi/appointment-service/internal/domain"
	"github.com/eshaafi/appointment-service/internal/events"
	apperrors "github.com/eshaafi/appointment-service/pkg/util"
)

type applicationFixture struct {
	svc          *ApplicationService
	users        *fakeUserRepo
	clinics      *fakeClinicRepo
	doctors      *fakeDoctorRepo
	applications *fakeApplicationRepo
	affiliations *fakeAffiliationRepo
	dispatcher   events.Dispatcher
}

func newApplicationFixture(t *testing.T) *applicationFixture {
	t.Helper()
	f := &applicationFixture{
		users:        newFakeUserRepo(),
		clinics:      newFakeClinicRepo(),
		doctors:      newFakeDoctorRepo(),
		applications: newFakeApplicationRepo(),
		affiliations: newFakeAffiliationRepo(),
		dispatcher:   events.NewInMemoryDispatcher(),
	}
	cfg := config.Config{}
	cfg.Auth.BcryptCost = bcrypt.MinCost
	f.svc = NewApplicationService(cfg, ApplicationDependencies{
		ApplicationRepo: f.applications,
		ClinicRepo:      f.clinics,
		AffiliationRepo: f.affiliations,
		DoctorRepo:      f.doctors,
		UserRepo:        f.users,
		Dispatcher:      f.dispatcher,
	})
	return f
}

func (f *applicationFixture) addClinic(t *testing.T, active bool) *domain.Clinic {
	t.Helper()
	clinic := &domain.Clinic{Name: "City Care", City: "Lahore", Active: active}
	require.NoError(t, f.clinics.Create(context.Background(), clinic))
	return clinic
}

func (f *applicationFixture) addClinicAdmin(t *testing.T, clinicID int64) *auth.Principal {
	t.Helper()
	user := &domain.User{
		Name:     "Clinic Admin",
		Email:    "admin@clinic.example",
		Role:     domain.RoleClinicAdmin,
		ClinicID: &clinicID,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return &auth.Principal{SubjectID: user.ID, Role: domain.RoleClinicAdmin}
}

func (f *applicationFixture) submit(t *testing.T, clinicID int64) *domain.Application {
	t.Helper()
	app, err := f.svc.Submit(context.Background(), SubmitInput{
		ClinicID:   clinicID,
		Name:       "Dr Ayesha Khan",
		Email:      "Ayesha.Khan@example.com",
		Speciality: "Cardiology",
		Location:   "Lahore",
	})
	require.NoError(t, err)
	return app
}

func errCode(t *testing.T, err error) (string, int) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	return domainErr.Code, domainErr.HTTPStatus
}

func TestSubmitUnknownClinic(t *testing.T) {
	f := newApplicationFixture(t)

	_, err := f.svc.Submit(context.Background(), SubmitInput{ClinicID: 99, Name: "X", Email: "x@example.com"})
	code, status := errCode(t, err)
	assert.Equal(t, "NOT_FOUND", code)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSubmitInactiveClinic(t *testing.T) {
	f := newApplicationFixture(t)
	clinic := f.addClinic(t, false)

	_, err := f.svc.Submit(context.Background(), SubmitInput{ClinicID: clinic.ID, Name: "X", Email: "x@example.com"})
	code, _ := errCode(t, err)
	assert.Equal(t, "NOT_FOUND", code)
}

func TestSubmitCreatesPending(t *testing.T) {
	f := newApplicationFixture(t)
	clinic := f.addClinic(t, true)

	var mu sync.Mutex
	var seen []events.Event
	f.dispatcher.Subscribe(events.EventApplicationSubmitted, func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, e)
		return nil
	})

	app := f.submit(t, clinic.ID)
	assert.Equal(t, domain.ApplicationStatusPending, app.Status)
	assert.Equal(t, "ayesha.khan@example.com", app.Email)
	assert.Nil(t, app.DecidedBy)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 1)
	payload, ok := seen[0].Payload.(events.ApplicationPayload)
	require.True(t, ok)
	assert.Equal(t, app.ID, payload.ApplicationID)
}

func TestApproveCreatesDoctorAndAffiliation(t *testing.T) {
	f := newApplicationFixture(t)
	clinic := f.addClinic(t, true)
	admin := f.addClinicAdmin(t, clinic.ID)
	app := f.submit(t, clinic.ID)

	decided, err := f.svc.Approve(context.Background(), admin, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusApproved, decided.Status)
	require.NotNil(t, decided.DecidedBy)
	assert.Equal(t, admin.SubjectID, *decided.DecidedBy)
	assert.NotNil(t, decided.DecidedAt)

	// External candidate: a DOCTOR account and profile were provisioned.
	user, err := f.users.GetByEmail(context.Background(), "ayesha.khan@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDoctor, user.Role)
	doctor, err := f.doctors.GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cardiology", doctor.Speciality)

	exists, err := f.affiliations.Exists(context.Background(), doctor.ID, clinic.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestApproveExistingDoctorApplication(t *testing.T) {
	f := newApplicationFixture(t)
	clinic := f.addClinic(t, true)
	admin := f.addClinicAdmin(t, clinic.ID)

	doctor := &domain.Doctor{UserID: 50, Name: "Dr Bilal", Speciality: "Dermatology"}
	require.NoError(t, f.doctors.Create(context.Background(), doctor))

	app, err := f.svc.Submit(context.Background(), SubmitInput{
		ClinicID: clinic.ID,
		DoctorID: &doctor.ID,
		Name:     "Dr Bilal",
		Email:    "bilal@example.com",
	})
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), admin, app.ID)
	require.NoError(t, err)

	exists, err := f.affiliations.Exists(context.Background(), doctor.ID, clinic.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	// No duplicate account was created for the known doctor.
	_, err = f.users.GetByEmail(context.Background(), "bilal@example.com")
	assert.Error(t, err)
}

func TestDecideTerminalApplication(t *testing.T) {
	f := newApplicationFixture(t)
	clinic := f.addClinic(t, true)
	admin := f.addClinicAdmin(t, clinic.ID)
	app := f.submit(t, clinic.ID)

	_, err := f.svc.Approve(context.Background(), admin, app.ID)
	require.NoError(t, err)

	// A second approve and a late reject both observe the terminal state.
	_, err = f.svc.Approve(context.Background(), admin, app.ID)
	code, status := errCode(t, err)
	assert.Equal(t, "CONFLICT", code)
	assert.Equal(t, http.StatusConflict, status)

	_, err = f.svc.Reject(context.Background(), admin, app.ID)
	code, _ = errCode(t, err)
	assert.Equal(t, "CONFLICT", code)
}

func TestConcurrentDecideExactlyOneWins(t *testing.T) {
	f := newApplicationFixture(t)
	clinic := f.addClinic(t, true)
	admin := f.addClinicAdmin(t, clinic.ID)
	app := f.submit(t, clinic.ID)

	var wg sync.WaitGroup
	results := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, results[0] = f.svc.Approve(context.Background(), admin, app.ID)
	}()
	go func() {
		defer wg.Done()
		_, results[1] = f.svc.Reject(context.Background(), admin, app.ID)
	}()
	wg.Wait()

	var wins, conflicts int
	for _, err := range results {
		if err == nil {
			wins++
			continue
		}
		code, _ := errCode(t, err)
		assert.Equal(t, "CONFLICT", code)
		conflicts++
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)

	final, err := f.applications.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.True(t, final.Status.Terminal())
}

func TestListCrossTenantForbidden(t *testing.T) {
	f := newApplicationFixture(t)
	clinicA := f.addClinic(t, true)
	clinicB := f.addClinic(t, true)
	adminA := f.addClinicAdmin(t, clinicA.ID)
	f.submit(t, clinicB.ID)

	_, err := f.svc.List(context.Background(), adminA, clinicB.ID, nil)
	code, status := errCode(t, err)
	assert.Equal(t, "FORBIDDEN", code)
	assert.Equal(t, http.StatusForbidden, status)

	// The same call by a super admin is in scope for any clinic.
	super := &auth.Principal{SubjectID: 999, Role: domain.RoleSuperAdmin}
	apps, err := f.svc.List(context.Background(), super, clinicB.ID, nil)
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

func TestDecideCrossTenantForbidden(t *testing.T) {
	f := newApplicationFixture(t)
	clinicA := f.addClinic(t, true)
	clinicB := f.addClinic(t, true)
	adminA := f.addClinicAdmin(t, clinicA.ID)
	app := f.submit(t, clinicB.ID)

	_, err := f.svc.Approve(context.Background(), adminA, app.ID)
	code, _ := errCode(t, err)
	assert.Equal(t, "FORBIDDEN", code)

	// The application is still PENDING after the denied attempt.
	current, err := f.applications.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusPending, current.Status)
}

func TestRemoveDoctorKeepsApplications(t *testing.T) {
	f := newApplicationFixture(t)
	clinic := f.addClinic(t, true)
	admin := f.addClinicAdmin(t, clinic.ID)
	app := f.submit(t, clinic.ID)

	_, err := f.svc.Approve(context.Background(), admin, app.ID)
	require.NoError(t, err)

	user, err := f.users.GetByEmail(context.Background(), "ayesha.khan@example.com")
	require.NoError(t, err)
	doctor, err := f.doctors.GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveDoctor(context.Background(), admin, doctor.ID, clinic.ID))

	exists, err := f.affiliations.Exists(context.Background(), doctor.ID, clinic.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	// The decision record survives as audit trail.
	kept, err := f.applications.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusApproved, kept.Status)

	// Removing again reports the affiliation as gone.
	err = f.svc.RemoveDoctor(context.Background(), admin, doctor.ID, clinic.ID)
	code, _ := errCode(t, err)
	assert.Equal(t, "NOT_FOUND", code)
}

func TestDecideUnknownApplication(t *testing.T) {
	f := newApplicationFixture(t)
	clinic := f.addClinic(t, true)
	admin := f.addClinicAdmin(t, clinic.ID)

	_, err := f.svc.Approve(context.Background(), admin, 404)
	code, _ := errCode(t, err)
	assert.Equal(t, "NOT_FOUND", code)
}
