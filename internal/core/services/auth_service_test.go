package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/core/domain"
	"debo-loans/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func (e *testEnv) auth() *AuthService {
	return NewAuthService(e.store, e.mailer, e.bg, e.cfg, e.clock)
}

func (e *testEnv) code(userID uint) string {
	e.t.Helper()
	var vc models.VerificationCode
	require.NoError(e.t, e.db.Where("user_id = ?", userID).Order("id DESC").First(&vc).Error)
	return vc.Code
}

func register(t *testing.T, svc *AuthService, email string) *models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Abebe Kebede",
		Email:    email,
		Password: "password123",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterCreatesInactiveBorrowerAndMailsCode(t *testing.T) {
	env := newTestEnv(t)
	svc := env.auth()

	user := register(t, svc, "  Abebe@Example.com ")
	assert.Equal(t, "abebe@example.com", user.Email)
	assert.Equal(t, domain.UserInactive, user.Status)
	assert.Equal(t, domain.RoleBorrower, user.Role)
	assert.Equal(t, "Unknown", user.Gender)

	code := env.code(user.ID)
	assert.Len(t, code, 6)

	env.bg.Wait()
	sent := env.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "abebe@example.com", sent[0].ToEmail)
	assert.Contains(t, sent[0].Body, code)

	_, err := svc.Register(context.Background(), &RegisterInput{Name: "x", Email: "ABEBE@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestVerifyEmailActivatesAccount(t *testing.T) {
	env := newTestEnv(t)
	svc := env.auth()
	user := register(t, svc, "abebe@example.com")

	res, err := svc.VerifyEmail(context.Background(), user.Email, env.code(user.ID))
	require.NoError(t, err)
	assert.Equal(t, domain.UserActive, res.User.Status)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)

	claims, err := jwt.ValidateAccessToken(res.AccessToken, env.cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "BORROWER", claims.Role)

	assert.Equal(t, int64(0), env.count(&models.VerificationCode{}, "user_id = ?", user.ID))

	_, err = svc.VerifyEmail(context.Background(), user.Email, "123456")
	assert.ErrorIs(t, err, domain.ErrAlreadyVerified)
}

func TestVerifyEmailExpiredCodeKeepsAccountInactive(t *testing.T) {
	env := newTestEnv(t)
	svc := env.auth()
	user := register(t, svc, "abebe@example.com")
	code := env.code(user.ID)

	env.advance(11 * time.Minute)

	_, err := svc.VerifyEmail(context.Background(), user.Email, code)
	require.ErrorIs(t, err, domain.ErrCodeExpired)

	stored, err := env.store.Users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserInactive, stored.Status)
}

func TestVerifyEmailWrongCode(t *testing.T) {
	env := newTestEnv(t)
	svc := env.auth()
	user := register(t, svc, "abebe@example.com")

	wrong := "000000"
	if env.code(user.ID) == wrong {
		wrong = "111111"
	}
	_, err := svc.VerifyEmail(context.Background(), user.Email, wrong)
	assert.ErrorIs(t, err, domain.ErrInvalidCode)

	_, err = svc.VerifyEmail(context.Background(), "nobody@example.com", wrong)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestResendCodeReplacesPendingCodes(t *testing.T) {
	env := newTestEnv(t)
	svc := env.auth()
	user := register(t, svc, "abebe@example.com")

	require.NoError(t, svc.ResendCode(context.Background(), user.Email))
	assert.Equal(t, int64(1), env.count(&models.VerificationCode{}, "user_id = ?", user.ID))

	_, err := svc.VerifyEmail(context.Background(), user.Email, env.code(user.ID))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ResendCode(context.Background(), user.Email), domain.ErrAlreadyVerified)
}

func TestLoginRequiresVerifiedActiveAccount(t *testing.T) {
	env := newTestEnv(t)
	svc := env.auth()
	ctx := context.Background()
	user := register(t, svc, "abebe@example.com")

	_, err := svc.Login(ctx, user.Email, "password123")
	assert.ErrorIs(t, err, domain.ErrUserInactive)

	_, err = svc.VerifyEmail(ctx, user.Email, env.code(user.ID))
	require.NoError(t, err)

	_, err = svc.Login(ctx, user.Email, "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	res, err := svc.Login(ctx, "ABEBE@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)

	require.NoError(t, env.store.Users.UpdateStatus(ctx, user.ID, domain.UserSuspended))
	_, err = svc.Login(ctx, user.Email, "password123")
	assert.ErrorIs(t, err, domain.ErrUserSuspended)
}

func TestRefreshTokenRotates(t *testing.T) {
	env := newTestEnv(t)
	svc := env.auth()
	ctx := context.Background()
	user := register(t, svc, "abebe@example.com")

	first, err := svc.VerifyEmail(ctx, user.Email, env.code(user.ID))
	require.NoError(t, err)

	second, err := svc.RefreshToken(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = svc.RefreshToken(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	require.NoError(t, svc.Logout(ctx, second.RefreshToken))
	_, err = svc.RefreshToken(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	_, err = svc.RefreshToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestConcurrentRefreshRotatesOnce(t *testing.T) {
	env := newTestEnv(t)
	svc := env.auth()
	ctx := context.Background()
	user := register(t, svc, "abebe@example.com")

	session, err := svc.VerifyEmail(ctx, user.Email, env.code(user.ID))
	require.NoError(t, err)

	const attempts = 4
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RefreshToken(context.Background(), session.RefreshToken)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrTokenRevoked)
	}
	assert.Equal(t, 1, succeeded)
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	env := newTestEnv(t)
	svc := env.auth()
	ctx := context.Background()
	user := register(t, svc, "abebe@example.com")

	first, err := svc.VerifyEmail(ctx, user.Email, env.code(user.ID))
	require.NoError(t, err)
	second, err := svc.Login(ctx, user.Email, "password123")
	require.NoError(t, err)

	p := domain.Principal{UserID: user.ID, Email: user.Email, Role: domain.RoleBorrower}
	n, err := svc.LogoutAll(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	for _, token := range []string{first.RefreshToken, second.RefreshToken} {
		_, err = svc.RefreshToken(ctx, token)
		assert.ErrorIs(t, err, domain.ErrTokenRevoked)
	}

	n, err = svc.LogoutAll(ctx, p)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLoginUpgradesOutdatedHash(t *testing.T) {
	env := newTestEnv(t)
	svc := env.auth()
	ctx := context.Background()
	user := register(t, svc, "abebe@example.com")
	_, err := svc.VerifyEmail(ctx, user.Email, env.code(user.ID))
	require.NoError(t, err)

	outdated, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost+1)
	require.NoError(t, err)
	require.NoError(t, env.store.Credentials.UpdateHash(ctx, user.ID, string(outdated)))

	_, err = svc.Login(ctx, user.Email, "password123")
	require.NoError(t, err)

	cred, err := env.store.Credentials.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(cred.PassHash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	_, err = svc.Login(ctx, user.Email, "password123")
	assert.NoError(t, err)
}
