package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/kraftstore/internal/domain"
)

func TestIdentityService_Register(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u, err := s.identity.Register(ctx, " Jane ", "Jane@Example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "Jane", u.Name)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "password", u.PasswordHash)
	assert.True(t, u.Preferences.EmailNotifications)
}

func TestIdentityService_RegisterAdminEmail(t *testing.T) {
	s := newStore(t)
	u, err := s.identity.Register(context.Background(), "Boss", "ADMIN@kraftstore.test", "password")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
}

func TestIdentityService_RegisterRejects(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	s.register(t, "Jane", "jane@example.com")

	_, err := s.identity.Register(ctx, "Other Jane", "JANE@example.com", "password")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	_, err = s.identity.Register(ctx, "", "x@example.com", "password")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.identity.Register(ctx, "X", "", "password")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.identity.Register(ctx, "X", "x@example.com", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestIdentityService_Authenticate(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	jane := s.register(t, "Jane", "jane@example.com")

	claims, err := s.identity.Authenticate(ctx, "JANE@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, jane.ID, claims.ID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, domain.RoleUser, claims.Role)
}

func TestIdentityService_AuthenticateFailuresAreIndistinguishable(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	jane := s.register(t, "Jane", "jane@example.com")

	_, wrongPassword := s.identity.Authenticate(ctx, "jane@example.com", "nope")
	_, unknownEmail := s.identity.Authenticate(ctx, "ghost@example.com", "password")
	require.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())

	inactive := false
	admin := s.register(t, "Admin", adminEmail)
	_, err := s.admin.UpdateUser(ctx, admin, jane.ID, domain.UserUpdate{IsActive: &inactive})
	require.NoError(t, err)
	_, err = s.identity.Authenticate(ctx, "jane@example.com", "password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestIdentityService_TokenRoundTrip(t *testing.T) {
	s := newStore(t)
	jane := s.register(t, "Jane", "jane@example.com")

	token, err := s.identity.IssueToken(jane)
	require.NoError(t, err)
	got, err := s.identity.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, jane, got)

	_, err = s.identity.VerifyToken(token + "x")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestIdentityService_RefreshClaims(t *testing.T) {
	s := newStore(t)
	jane := s.register(t, "Jane", "jane@example.com")

	got := s.identity.RefreshClaims(jane, domain.SessionUpdate{Name: "Janet"})
	assert.Equal(t, "Janet", got.Name)
	assert.Equal(t, jane.Email, got.Email)
	assert.Equal(t, jane.Role, got.Role)
}

func TestIdentityService_Profile(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	jane := s.register(t, "Jane", "jane@example.com")

	name := "Janet"
	addr := domain.Address{Street: "1 Main St", City: "Springfield", Country: "US"}
	u, err := s.identity.UpdateProfile(ctx, jane, domain.ProfileUpdate{Name: &name, Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, "Janet", u.Name)

	got, err := s.identity.Profile(ctx, jane)
	require.NoError(t, err)
	assert.Equal(t, "Janet", got.Name)
	require.NotNil(t, got.Address)
	assert.Equal(t, "Springfield", got.Address.City)

	empty := " "
	_, err = s.identity.UpdateProfile(ctx, jane, domain.ProfileUpdate{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.identity.Profile(ctx, domain.SessionClaims{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
