package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/services"
)

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	auth := services.NewAuthService(newTestStore(t), newFakeClock(reportNow))

	admin, err := auth.CreateUser(ctx, " Admin@Example.com ", "Admin", "secret123", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.NotEqual(t, "secret123", admin.PasswordHash)

	_, err = auth.CreateUser(ctx, "viewer@example.com", "Viewer", "secret123", domain.RoleUser)
	require.NoError(t, err)

	user, err := auth.Authenticate(ctx, "ADMIN@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, user.ID)

	_, err = auth.Authenticate(ctx, "admin@example.com", "wrong-password")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = auth.Authenticate(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = auth.Authenticate(ctx, "viewer@example.com", "secret123")
	assert.ErrorIs(t, err, services.ErrNotAdmin)
}

func TestCreateUserValidation(t *testing.T) {
	ctx := context.Background()
	auth := services.NewAuthService(newTestStore(t), newFakeClock(reportNow))

	_, err := auth.CreateUser(ctx, "", "x", "secret123", domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = auth.CreateUser(ctx, "a@example.com", "x", "short", domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = auth.CreateUser(ctx, "a@example.com", "x", "secret123", domain.RoleAdmin)
	require.NoError(t, err)
	_, err = auth.CreateUser(ctx, "A@example.com", "y", "secret123", domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAdminByEmail(t *testing.T) {
	ctx := context.Background()
	auth := services.NewAuthService(newTestStore(t), newFakeClock(reportNow))
	_, err := auth.CreateUser(ctx, "admin@example.com", "Admin", "secret123", domain.RoleAdmin)
	require.NoError(t, err)
	_, err = auth.CreateUser(ctx, "viewer@example.com", "Viewer", "secret123", domain.RoleUser)
	require.NoError(t, err)

	user, err := auth.AdminByEmail(ctx, "Admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	_, err = auth.AdminByEmail(ctx, "viewer@example.com")
	assert.ErrorIs(t, err, services.ErrNotAdmin)

	_, err = auth.AdminByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = auth.CurrentUser(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
