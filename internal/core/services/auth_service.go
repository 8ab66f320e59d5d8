package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"debo-loans/internal/adapters/mail"
	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/adapters/persistence/repositories"
	"debo-loans/internal/config"
	"debo-loans/internal/core/domain"
	"debo-loans/internal/pkg/jwt"
	"debo-loans/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const verificationCodeLength = 6

// AuthService handles registration, email verification and sessions
type AuthService struct {
	store  *repositories.Store
	mailer Mailer
	bg     *Background
	cfg    *config.Config
	now    Clock
}

// NewAuthService creates a new auth service
func NewAuthService(store *repositories.Store, mailer Mailer, bg *Background, cfg *config.Config, now Clock) *AuthService {
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		store:  store,
		mailer: mailer,
		bg:     bg,
		cfg:    cfg,
		now:    now,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Gender      string
	DateOfBirth *time.Time
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Register creates an inactive borrower and emails a verification code
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.User, error) {
	email := normalizeEmail(input.Email)

	exists, err := s.store.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailAlreadyExists
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	code, err := generateCode(verificationCodeLength)
	if err != nil {
		return nil, fmt.Errorf("generate verification code: %w", err)
	}

	gender := strings.TrimSpace(input.Gender)
	if gender == "" {
		gender = "Unknown"
	}

	user := &models.User{
		Name:        strings.TrimSpace(input.Name),
		Email:       email,
		Gender:      gender,
		DateOfBirth: input.DateOfBirth,
		Status:      domain.UserInactive,
		Role:        domain.RoleBorrower,
	}

	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		if err := tx.Credentials.Create(ctx, &models.UserCredential{UserID: user.ID, PassHash: hashedPassword}); err != nil {
			return err
		}
		return tx.VerificationCodes.Create(ctx, &models.VerificationCode{
			UserID:    user.ID,
			Code:      code,
			ExpiresAt: s.codeExpiry(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.sendCode(user, code)

	log.Printf("✅ User registered: %s", user.Email)
	return user, nil
}

// VerifyEmail activates the account when code matches and has not expired
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) (*AuthResponse, error) {
	user, err := s.findUser(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.Status == domain.UserActive {
		return nil, domain.ErrAlreadyVerified
	}

	stored, err := s.store.VerificationCodes.GetByUserAndCode(ctx, user.ID, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCode
		}
		return nil, err
	}
	if stored.IsExpired(s.now()) {
		return nil, domain.ErrCodeExpired
	}

	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Users.UpdateStatus(ctx, user.ID, domain.UserActive); err != nil {
			return err
		}
		return tx.VerificationCodes.DeleteByUserID(ctx, user.ID)
	})
	if err != nil {
		return nil, err
	}
	user.Status = domain.UserActive

	log.Printf("✅ Email verified: %s", user.Email)
	return s.issue(ctx, user)
}

// ResendCode replaces every pending code of an inactive user with a fresh one
func (s *AuthService) ResendCode(ctx context.Context, email string) error {
	user, err := s.findUser(ctx, email)
	if err != nil {
		return err
	}
	if user.Status != domain.UserInactive {
		return domain.ErrAlreadyVerified
	}

	code, err := generateCode(verificationCodeLength)
	if err != nil {
		return fmt.Errorf("generate verification code: %w", err)
	}

	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.VerificationCodes.DeleteByUserID(ctx, user.ID); err != nil {
			return err
		}
		return tx.VerificationCodes.Create(ctx, &models.VerificationCode{
			UserID:    user.ID,
			Code:      code,
			ExpiresAt: s.codeExpiry(),
		})
	})
	if err != nil {
		return err
	}

	s.sendCode(user, code)
	return nil
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, email, plain string) (*AuthResponse, error) {
	user, err := s.store.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	cred, err := s.store.Credentials.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := checkStatus(user); err != nil {
		return nil, err
	}

	if err := password.Compare(cred.PassHash, plain); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			log.Printf("❌ Unusable password hash for user %d: %v", user.ID, err)
		}
		return nil, domain.ErrInvalidCredentials
	}
	s.rehash(ctx, cred, plain)

	log.Printf("✅ User logged in: %s", user.Email)
	return s.issue(ctx, user)
}

// RefreshToken rotates a refresh token and issues a new pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}

	stored, err := s.store.RefreshTokens.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if stored.IsRevoked() {
		return nil, domain.ErrTokenRevoked
	}
	if stored.IsExpired(s.now()) {
		return nil, domain.ErrTokenExpired
	}

	user, err := s.store.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if err := checkStatus(user); err != nil {
		return nil, err
	}

	rotated, err := s.store.RefreshTokens.Revoke(ctx, stored.ID, s.now())
	if err != nil {
		return nil, err
	}
	if !rotated {
		return nil, domain.ErrTokenRevoked
	}

	return s.issue(ctx, user)
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.store.RefreshTokens.RevokeByTokenHash(ctx, password.HashToken(refreshToken), s.now())
}

// LogoutAll revokes every refresh token of the caller and returns how many were live
func (s *AuthService) LogoutAll(ctx context.Context, p domain.Principal) (int64, error) {
	n, err := s.store.RefreshTokens.RevokeAllByUserID(ctx, p.UserID, s.now())
	if err != nil {
		return 0, err
	}

	log.Printf("✅ %d sessions revoked for user ID: %d", n, p.UserID)
	return n, nil
}

// Me returns the caller's account
func (s *AuthService) Me(ctx context.Context, p domain.Principal) (*models.User, error) {
	user, err := s.store.Users.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) findUser(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) codeExpiry() time.Time {
	return s.now().Add(time.Duration(s.cfg.Verification.CodeTTLMinutes) * time.Minute)
}

// sendCode emails the code after the registration has committed
func (s *AuthService) sendCode(user *models.User, code string) {
	msg := mail.Message{
		ToName:  user.Name,
		ToEmail: user.Email,
		Subject: "Your verification code",
		Body: fmt.Sprintf("Your verification code is %s. It expires in %d minutes.",
			code, s.cfg.Verification.CodeTTLMinutes),
	}
	s.bg.Go("send verification code to "+user.Email, func(ctx context.Context) error {
		if err := s.mailer.Send(ctx, msg); err != nil {
			return err
		}
		log.Printf("📧 Verification code sent to %s", msg.ToEmail)
		return nil
	})
}

// rehash upgrades a credential hashed with a cost other than password.Cost
func (s *AuthService) rehash(ctx context.Context, cred *models.UserCredential, plain string) {
	if !password.NeedsRehash(cred.PassHash) {
		return
	}
	hash, err := password.Hash(plain)
	if err == nil {
		err = s.store.Credentials.UpdateHash(ctx, cred.UserID, hash)
	}
	if err != nil {
		log.Printf("⚠️ Failed to rehash password for user %d: %v", cred.UserID, err)
	}
}

// issue generates and stores a new token pair for user
func (s *AuthService) issue(ctx context.Context, user *models.User) (*AuthResponse, error) {
	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	token := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: password.HashToken(tokens.RefreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	if err := s.store.RefreshTokens.Create(ctx, token); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(user *models.User) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Email,
		string(user.Role),
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		uuid.New().String(),
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func checkStatus(user *models.User) error {
	switch user.Status {
	case domain.UserActive:
		return nil
	case domain.UserSuspended:
		return domain.ErrUserSuspended
	default:
		return domain.ErrUserInactive
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateCode returns a crypto-random numeric code of the given length
func generateCode(length int) (string, error) {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
