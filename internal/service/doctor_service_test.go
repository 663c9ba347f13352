package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaafi/appointment-service/internal/auth"
	"github.com/eshaafi/appointment-service/internal/domain"
)

type doctorFixture struct {
	svc          *DoctorService
	doctors      *fakeDoctorRepo
	availability *fakeAvailabilityRepo
	reviews      *fakeReviewRepo
}

func newDoctorFixture(t *testing.T) *doctorFixture {
	t.Helper()
	f := &doctorFixture{
		doctors:      newFakeDoctorRepo(),
		availability: newFakeAvailabilityRepo(),
		reviews:      newFakeReviewRepo(),
	}
	f.svc = NewDoctorService(DoctorDependencies{
		DoctorRepo:       f.doctors,
		AvailabilityRepo: f.availability,
		ReviewRepo:       f.reviews,
	})
	return f
}

func doctorPrincipal(userID int64) *auth.Principal {
	return &auth.Principal{SubjectID: userID, Role: domain.RoleDoctor}
}

func TestUpsertProfileCreatesThenUpdates(t *testing.T) {
	f := newDoctorFixture(t)
	principal := doctorPrincipal(10)

	created, err := f.svc.UpsertProfile(context.Background(), principal, ProfileInput{
		Name:       "Dr Sana",
		Speciality: "ENT",
		Location:   "Karachi",
		FeePKR:     2500,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, int64(10), created.UserID)

	updated, err := f.svc.UpsertProfile(context.Background(), principal, ProfileInput{
		Name:       "Dr Sana",
		Speciality: "Otolaryngology",
		Location:   "Karachi",
		FeePKR:     3000,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Otolaryngology", updated.Speciality)

	stored, err := f.doctors.GetByUserID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 3000, stored.FeePKR)
}

func TestSpecialitiesWithoutCache(t *testing.T) {
	f := newDoctorFixture(t)
	for i, speciality := range []string{"ENT", "Cardiology", "ENT"} {
		require.NoError(t, f.doctors.Create(context.Background(),
			&domain.Doctor{UserID: int64(i + 1), Speciality: speciality}))
	}

	specialities, err := f.svc.Specialities(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ENT", "Cardiology"}, specialities)
}

func TestSlotOwnership(t *testing.T) {
	f := newDoctorFixture(t)
	owner := doctorPrincipal(10)
	stranger := doctorPrincipal(11)

	for _, p := range []*auth.Principal{owner, stranger} {
		_, err := f.svc.UpsertProfile(context.Background(), p, ProfileInput{Name: "Dr", Speciality: "ENT"})
		require.NoError(t, err)
	}

	slot, err := f.svc.AddSlot(context.Background(), owner, SlotInput{
		Weekday:   1,
		StartTime: "09:00",
		EndTime:   "13:00",
	})
	require.NoError(t, err)

	// Another doctor can neither update nor delete the slot.
	_, err = f.svc.UpdateSlot(context.Background(), stranger, slot.ID, SlotInput{Weekday: 2, StartTime: "10:00", EndTime: "12:00"})
	code, _ := errCode(t, err)
	assert.Equal(t, "NOT_FOUND", code)

	err = f.svc.DeleteSlot(context.Background(), stranger, slot.ID)
	code, _ = errCode(t, err)
	assert.Equal(t, "NOT_FOUND", code)

	require.NoError(t, f.svc.DeleteSlot(context.Background(), owner, slot.ID))
	slots, err := f.svc.Availability(context.Background(), slot.DoctorID)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAddSlotWithoutProfile(t *testing.T) {
	f := newDoctorFixture(t)

	_, err := f.svc.AddSlot(context.Background(), doctorPrincipal(10), SlotInput{Weekday: 1, StartTime: "09:00", EndTime: "13:00"})
	code, _ := errCode(t, err)
	assert.Equal(t, "NOT_FOUND", code)
}

func TestAddReviewRefreshesRating(t *testing.T) {
	f := newDoctorFixture(t)
	doctor := &domain.Doctor{UserID: 10, Name: "Dr Sana", Speciality: "ENT"}
	require.NoError(t, f.doctors.Create(context.Background(), doctor))

	patient := &auth.Principal{SubjectID: 1, Role: domain.RolePatient}
	_, err := f.svc.AddReview(context.Background(), patient, doctor.ID, ReviewInput{Rating: 5, Comment: "great"})
	require.NoError(t, err)
	_, err = f.svc.AddReview(context.Background(), patient, doctor.ID, ReviewInput{Rating: 3, Comment: "ok"})
	require.NoError(t, err)

	refreshed, err := f.doctors.GetByID(context.Background(), doctor.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, refreshed.Rating, 0.001)

	reviews, err := f.svc.Reviews(context.Background(), doctor.ID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestAddReviewUnknownDoctor(t *testing.T) {
	f := newDoctorFixture(t)

	patient := &auth.Principal{SubjectID: 1, Role: domain.RolePatient}
	_, err := f.svc.AddReview(context.Background(), patient, 404, ReviewInput{Rating: 5})
	code, _ := errCode(t, err)
	assert.Equal(t, "NOT_FOUND", code)
}
