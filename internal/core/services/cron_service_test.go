package services

import (
	"context"
	"testing"
	"time"

	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupRemovesExpiredCodesAndStaleTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.user("borrower@example.com", domain.RoleBorrower, domain.UserInactive)
	now := env.clock()

	require.NoError(t, env.store.VerificationCodes.Create(ctx, &models.VerificationCode{UserID: user.UserID, Code: "111111", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, env.store.VerificationCodes.Create(ctx, &models.VerificationCode{UserID: user.UserID, Code: "222222", ExpiresAt: now.Add(time.Minute)}))

	revokedAt := now.Add(-time.Minute)
	require.NoError(t, env.store.RefreshTokens.Create(ctx, &models.RefreshToken{UserID: user.UserID, TokenHash: "expired", ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, env.store.RefreshTokens.Create(ctx, &models.RefreshToken{UserID: user.UserID, TokenHash: "revoked", ExpiresAt: now.Add(time.Hour), RevokedAt: &revokedAt}))
	require.NoError(t, env.store.RefreshTokens.Create(ctx, &models.RefreshToken{UserID: user.UserID, TokenHash: "live", ExpiresAt: now.Add(time.Hour)}))

	svc := NewCronService(env.store, "@every 1h", env.clock)
	codes, tokens, err := svc.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), codes)
	assert.Equal(t, int64(2), tokens)

	assert.Equal(t, int64(1), env.count(&models.VerificationCode{}, ""))
	assert.Equal(t, int64(1), env.count(&models.RefreshToken{}, "token_hash = ?", "live"))
}

func TestCronStartRejectsBadSpec(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCronService(env.store, "not a schedule", env.clock)
	assert.Error(t, svc.Start())
}
