package repositories

import (
	"context"

	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/core/domain"

	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail gets a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail checks if email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// UpdateStatus sets the account status
func (r *userRepository) UpdateStatus(ctx context.Context, id uint, status domain.UserStatus) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("status", status).Error
}

// UpdateRole sets the account role
func (r *userRepository) UpdateRole(ctx context.Context, id uint, role domain.Role) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role).Error
}

// List lists users with pagination
func (r *userRepository) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// ListIDsByRole returns ids of users with role and status
func (r *userRepository) ListIDsByRole(ctx context.Context, role domain.Role, status domain.UserStatus) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ? AND status = ?", role, status).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// CountByRole counts users grouped by role
func (r *userRepository) CountByRole(ctx context.Context) (map[domain.Role]int64, error) {
	var rows []struct {
		Role  domain.Role
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("role, COUNT(*) AS total").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.Role]int64, len(domain.Roles))
	for _, role := range domain.Roles {
		counts[role] = 0
	}
	for _, row := range rows {
		counts[row.Role] = row.Total
	}
	return counts, nil
}

// credentialRepository implements CredentialRepository interface
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) Create(ctx context.Context, credential *models.UserCredential) error {
	return r.db.WithContext(ctx).Create(credential).Error
}

func (r *credentialRepository) UpdateHash(ctx context.Context, userID uint, passHash string) error {
	return r.db.WithContext(ctx).
		Model(&models.UserCredential{}).
		Where("user_id = ?", userID).
		Update("pass_hash", passHash).Error
}

func (r *credentialRepository) GetByUserID(ctx context.Context, userID uint) (*models.UserCredential, error) {
	var credential models.UserCredential
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&credential).Error
	if err != nil {
		return nil, err
	}
	return &credential, nil
}
