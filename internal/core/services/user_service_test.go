package services

import (
	"context"
	"testing"
	"time"

	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/core/domain"
	"debo-loans/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.user("admin@example.com", domain.RoleAdmin, domain.UserActive)
	borrower := env.user("borrower@example.com", domain.RoleBorrower, domain.UserActive)
	manager := env.user("manager@example.com", domain.RoleManager, domain.UserActive)

	svc := NewUserService(env.store)

	user, err := svc.ChangeRole(ctx, admin, borrower.UserID, "cashier")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCashier, user.Role)

	stored, err := env.store.Users.GetByID(ctx, borrower.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCashier, stored.Role)

	_, err = svc.ChangeRole(ctx, admin, borrower.UserID, "ADMIN")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
	_, err = svc.ChangeRole(ctx, admin, borrower.UserID, "SUPERUSER")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
	_, err = svc.ChangeRole(ctx, admin, 999, "MANAGER")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = svc.ChangeRole(ctx, admin, admin.UserID, "MANAGER")
	assert.ErrorIs(t, err, domain.ErrCannotModifySelf)
	_, err = svc.ChangeRole(ctx, manager, borrower.UserID, "MANAGER")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSuspendRevokesRefreshTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.user("admin@example.com", domain.RoleAdmin, domain.UserActive)
	borrower := env.user("borrower@example.com", domain.RoleBorrower, domain.UserActive)
	require.NoError(t, env.store.RefreshTokens.Create(ctx, &models.RefreshToken{
		UserID:    borrower.UserID,
		TokenHash: "hash",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	svc := NewUserService(env.store)
	user, err := svc.ChangeStatus(ctx, admin, borrower.UserID, domain.UserSuspended)
	require.NoError(t, err)
	assert.Equal(t, domain.UserSuspended, user.Status)

	token, err := env.store.RefreshTokens.GetByTokenHash(ctx, "hash")
	require.NoError(t, err)
	assert.True(t, token.IsRevoked())

	user, err = svc.ChangeStatus(ctx, admin, borrower.UserID, domain.UserActive)
	require.NoError(t, err)
	assert.Equal(t, domain.UserActive, user.Status)

	_, err = svc.ChangeStatus(ctx, admin, borrower.UserID, domain.UserInactive)
	assert.ErrorIs(t, err, domain.ErrInvalidUserStatus)
}

func TestListUsers(t *testing.T) {
	env := newTestEnv(t)
	admin := env.user("admin@example.com", domain.RoleAdmin, domain.UserActive)
	env.user("a@example.com", domain.RoleBorrower, domain.UserActive)
	env.user("b@example.com", domain.RoleBorrower, domain.UserInactive)

	svc := NewUserService(env.store)
	users, total, err := svc.List(context.Background(), admin, pagination.NewParams(1, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 2)
	assert.Equal(t, admin.UserID, users[0].ID)
}
