package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/backend/internal/app/models"
	"github.com/learnhub/backend/internal/app/models/dto"
	"github.com/learnhub/backend/internal/app/repositories"
	"github.com/learnhub/backend/internal/pkg/apperrors"
	"github.com/learnhub/backend/internal/pkg/auth"
)

func newAuthFixture(t *testing.T) (*AuthService, *auth.JWTService, *repositories.Repositories) {
	t.Helper()
	repos := repositories.NewMemoryRepositories()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "test",
	})
	svc := NewAuthService(repos.Users, jwtService, zerolog.Nop())
	return svc, jwtService, repos
}

func TestAuthService_Register(t *testing.T) {
	svc, jwtService, repos := newAuthFixture(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int(time.Hour.Seconds()), resp.ExpiresIn)
	assert.Equal(t, models.RoleStudent, resp.User.Role)

	// The issued token carries the stored identity
	claims, err := jwtService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleStudent, claims.Role)

	// Plaintext never lands in storage
	stored, err := repos.Users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.Password)
	assert.True(t, auth.CheckPassword(stored.Password, "secret1"))
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "other-secret"})
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{Username: "alice", Password: "abc"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}

func TestAuthService_Login(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	// Unknown user and wrong password must be indistinguishable
	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
