package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurulquran/academy-backend/internal/config"
	"github.com/nurulquran/academy-backend/internal/model"
	"github.com/nurulquran/academy-backend/internal/repository/memory"
)

func newAuthService() *AuthService {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour, BcryptCost: 4}
	return NewAuthService(cfg, memory.NewUserRepository(), zerolog.Nop())
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService()

	user, err := svc.EnsureUser(ctx, "Ustadh@Academy.test", "Ustadh Ali", "bismillah", model.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, "ustadh@academy.test", user.Email)

	resp, err := svc.Login(ctx, model.LoginRequest{Email: "ustadh@academy.test", Password: "bismillah"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.ElementsMatch(t, model.RoleTeacher.Permissions(), resp.Permissions)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.True(t, claims.HasPermission(model.PermissionRecordsWrite))
	assert.False(t, claims.HasPermission(model.PermissionSessionsWrite))

	_, err = svc.Login(ctx, model.LoginRequest{Email: "ustadh@academy.test", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, model.LoginRequest{Email: "nobody@academy.test", Password: "bismillah"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_EnsureUserResetsPassword(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService()

	first, err := svc.EnsureUser(ctx, "admin@academy.test", "Admin", "first-pass", model.RoleAdmin)
	require.NoError(t, err)
	second, err := svc.EnsureUser(ctx, "admin@academy.test", "Admin", "second-pass", model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "admin@academy.test", Password: "second-pass"})
	require.NoError(t, err)

	_, err = svc.EnsureUser(ctx, "x@academy.test", "X", "password", model.Role("janitor"))
	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestAuthService_RejectsForeignToken(t *testing.T) {
	svc := newAuthService()
	other := NewAuthService(&config.Config{JWTSecret: "other", JWTExpiry: time.Hour, BcryptCost: 4},
		memory.NewUserRepository(), zerolog.Nop())

	token, err := other.GenerateToken(uuid.New(), model.RoleAdmin, model.RoleAdmin.Permissions())
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
