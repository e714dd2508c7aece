package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/case-service/internal/config"
	"github.com/spec-kit/case-service/internal/domain"
)

func newAuthFixture() (*AuthService, *mockRepository, *recordingDispatcher) {
	repo := newMockRepository()
	dispatcher := &recordingDispatcher{}
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
		},
	}
	svc := NewAuthService(cfg, AuthDependencies{
		UserRepo:   mockUserRepo{repo},
		Dispatcher: dispatcher,
	})
	return svc, repo, dispatcher
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthFixture()

	tests := []struct {
		name     string
		email    string
		password string
		role     domain.UserRole
	}{
		{"missing at sign", "not-an-email", "password123", domain.RoleUser},
		{"missing domain dot", "user@localhost", "password123", domain.RoleUser},
		{"whitespace in email", "user name@example.com", "password123", domain.RoleUser},
		{"short password", "user@example.com", "short", domain.RoleUser},
		{"unknown role", "user@example.com", "password123", domain.UserRole("SUPERUSER")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.email, tt.password, tt.role)
			assertDomainCode(t, err, "VALIDATION_FAILED")
		})
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, repo, dispatcher := newAuthFixture()

	user, err := svc.Register(context.Background(), "user@example.com", "password123", domain.RoleUser)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "password123", user.PasswordHash)

	stored, err := repo.GetByEmail(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.NotContains(t, stored.PasswordHash, "password123")

	published := dispatcher.byType(domain.EventUserRegistered)
	require.Len(t, published, 1)
	assert.Equal(t, user.ID, published[0].EntityID)
	assert.Equal(t, user.ID, published[0].ActorUserID)
	assert.Equal(t, "user@example.com", published[0].Metadata["email"])
	assert.NotEmpty(t, published[0].ID)
	assert.False(t, published[0].Timestamp.IsZero())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), "user@example.com", "password123", domain.RoleUser)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "user@example.com", "different-pw", domain.RoleAdmin)
	assertDomainCode(t, err, "CONFLICT")
}

func TestLoginRoundtrip(t *testing.T) {
	svc, _, dispatcher := newAuthFixture()

	registered, err := svc.Register(context.Background(), "user@example.com", "password123", domain.RoleUser)
	require.NoError(t, err)

	user, token, expiresAt, err := svc.Login(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.Subject)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, domain.RoleUser, claims.Role)

	published := dispatcher.byType(domain.EventUserLoggedIn)
	require.Len(t, published, 1)
	assert.Equal(t, registered.ID, published[0].ActorUserID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, dispatcher := newAuthFixture()

	_, err := svc.Register(context.Background(), "user@example.com", "password123", domain.RoleUser)
	require.NoError(t, err)

	_, _, _, unknownErr := svc.Login(context.Background(), "stranger@example.com", "password123")
	_, _, _, wrongPwErr := svc.Login(context.Background(), "user@example.com", "wrong-password")

	assertDomainCode(t, unknownErr, "UNAUTHORIZED")
	assertDomainCode(t, wrongPwErr, "UNAUTHORIZED")
	assert.Equal(t, unknownErr.Error(), wrongPwErr.Error())

	assert.Empty(t, dispatcher.byType(domain.EventUserLoggedIn))
}

func TestValidateRejectsGarbageToken(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Validate("not.a.token")
	assertDomainCode(t, err, "UNAUTHORIZED")
}

func TestListUsersFiltersByRole(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), "admin@example.com", "password123", domain.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "one@example.com", "password123", domain.RoleUser)
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "two@example.com", "password123", domain.RoleUser)
	require.NoError(t, err)

	all, err := svc.ListUsers(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	role := domain.RoleUser
	regular, err := svc.ListUsers(context.Background(), &role)
	require.NoError(t, err)
	assert.Len(t, regular, 2)
	for _, user := range regular {
		assert.Equal(t, domain.RoleUser, user.Role)
	}

	bad := domain.UserRole("SUPERUSER")
	_, err = svc.ListUsers(context.Background(), &bad)
	assertDomainCode(t, err, "VALIDATION_FAILED")
}

func TestGetUserNotFound(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.GetUser(context.Background(), "missing")
	assertDomainCode(t, err, "NOT_FOUND")
}
