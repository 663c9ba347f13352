package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/eshaafi/appointment-service/internal/config"
	"github.com/eshaafi/appointment-service/internal/domain"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeDenylist) {
	t.Helper()
	users := newFakeUserRepo()
	denylist := newFakeDenylist()
	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 60
	cfg.Auth.BcryptCost = bcrypt.MinCost
	svc := NewAuthService(cfg, AuthDependencies{UserRepo: users, Denylist: denylist})
	return svc, users, denylist
}

func TestRegisterAlwaysPatient(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	user, token, _, err := svc.Register(context.Background(), "Hamza", "Hamza@Example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, domain.RolePatient, user.Role)
	assert.Equal(t, "hamza@example.com", user.Email)
	assert.NotEmpty(t, token)

	claims, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RolePatient, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, _, _, err := svc.Register(context.Background(), "Hamza", "h@example.com", "pass-one")
	require.NoError(t, err)

	_, _, _, err = svc.Register(context.Background(), "Other", "H@Example.com", "pass-two")
	code, _ := errCode(t, err)
	assert.Equal(t, "VALIDATION_FAILED", code)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, _, _, err := svc.Register(context.Background(), "Hamza", "h@example.com", "right-pass")
	require.NoError(t, err)

	_, _, _, err = svc.Login(context.Background(), "h@example.com", "wrong-pass")
	code, _ := errCode(t, err)
	assert.Equal(t, "VALIDATION_FAILED", code)

	// Unknown account fails the same way; no account enumeration.
	_, _, _, err = svc.Login(context.Background(), "nobody@example.com", "whatever")
	code, _ = errCode(t, err)
	assert.Equal(t, "VALIDATION_FAILED", code)
}

func TestLoginIssuesRoleBearingToken(t *testing.T) {
	svc, users, _ := newAuthFixture(t)

	_, _, _, err := svc.Register(context.Background(), "Hamza", "h@example.com", "s3cret-pass")
	require.NoError(t, err)

	// Promote out of band, then log in again.
	user, err := users.GetByEmail(context.Background(), "h@example.com")
	require.NoError(t, err)
	user.Role = domain.RoleClinicAdmin
	require.NoError(t, users.Update(context.Background(), user))

	_, token, _, err := svc.Login(context.Background(), "h@example.com", "s3cret-pass")
	require.NoError(t, err)
	claims, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClinicAdmin, claims.Role)
}

func TestLogoutRevokesJTI(t *testing.T) {
	svc, _, denylist := newAuthFixture(t)

	_, token, _, err := svc.Register(context.Background(), "Hamza", "h@example.com", "s3cret-pass")
	require.NoError(t, err)
	claims, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token))

	revoked, err := denylist.IsRevoked(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestLogoutWithoutCredentialIsTrivial(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	assert.NoError(t, svc.Logout(context.Background(), ""))
	assert.NoError(t, svc.Logout(context.Background(), "garbage-token"))
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	user, _, _, err := svc.Register(context.Background(), "Hamza", "h@example.com", "s3cret-pass")
	require.NoError(t, err)

	phone := "+92-300-1234567"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, ProfileUpdateInput{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Hamza", updated.Name)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
}
