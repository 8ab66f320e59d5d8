package repositories

import (
	"context"
	"time"

	"debo-loans/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// GetByTokenHash returns the session for a token hash, revoked or not
func (r *refreshTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// Revoke marks one session revoked at at. It reports false when another
// request revoked it first, so a refresh token rotates at most once.
func (r *refreshTokenRepository) Revoke(ctx context.Context, id uint, at time.Time) (bool, error) {
	n, err := r.revoke(ctx, at, "id = ?", id)
	return n == 1, err
}

func (r *refreshTokenRepository) RevokeByTokenHash(ctx context.Context, tokenHash string, at time.Time) error {
	_, err := r.revoke(ctx, at, "token_hash = ?", tokenHash)
	return err
}

// RevokeAllByUserID ends every live session of a user and returns how many were ended
func (r *refreshTokenRepository) RevokeAllByUserID(ctx context.Context, userID uint, at time.Time) (int64, error) {
	return r.revoke(ctx, at, "user_id = ?", userID)
}

// DeleteStale removes sessions that expired before now or were revoked
func (r *refreshTokenRepository) DeleteStale(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ? OR revoked_at IS NOT NULL", now).
		Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}

func (r *refreshTokenRepository) revoke(ctx context.Context, at time.Time, query string, arg interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where(query, arg).
		Where("revoked_at IS NULL").
		Update("revoked_at", at)
	return result.RowsAffected, result.Error
}
