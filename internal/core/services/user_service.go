package services

import (
	"context"
	"errors"
	"log"
	"time"

	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/adapters/persistence/repositories"
	"debo-loans/internal/core/domain"
	"debo-loans/internal/pkg/pagination"

	"gorm.io/gorm"
)

// UserService handles account administration
type UserService struct {
	store *repositories.Store
}

// NewUserService creates a new user service
func NewUserService(store *repositories.Store) *UserService {
	return &UserService{store: store}
}

// assignableRoles are the roles an admin may hand out
var assignableRoles = map[domain.Role]bool{
	domain.RoleManager:  true,
	domain.RoleCashier:  true,
	domain.RoleBorrower: true,
}

// ChangeRole sets the role of another account
func (s *UserService) ChangeRole(ctx context.Context, p domain.Principal, userID uint, rawRole string) (*models.User, error) {
	if !domain.Can(p.Role, domain.ActionManageUsers) {
		return nil, domain.ErrForbidden
	}

	user, err := s.target(ctx, p, userID)
	if err != nil {
		return nil, err
	}

	role, ok := domain.ParseRole(rawRole)
	if !ok || !assignableRoles[role] {
		return nil, domain.ErrInvalidRole
	}

	if err := s.store.Users.UpdateRole(ctx, user.ID, role); err != nil {
		return nil, err
	}
	user.Role = role

	log.Printf("✅ User %d role changed to %s by %d", user.ID, role, p.UserID)
	return user, nil
}

// ChangeStatus activates or suspends another account.
// Suspending also revokes every refresh token of the account.
func (s *UserService) ChangeStatus(ctx context.Context, p domain.Principal, userID uint, status domain.UserStatus) (*models.User, error) {
	if !domain.Can(p.Role, domain.ActionManageUsers) {
		return nil, domain.ErrForbidden
	}

	user, err := s.target(ctx, p, userID)
	if err != nil {
		return nil, err
	}

	if status != domain.UserActive && status != domain.UserSuspended {
		return nil, domain.ErrInvalidUserStatus
	}

	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Users.UpdateStatus(ctx, user.ID, status); err != nil {
			return err
		}
		if status == domain.UserSuspended {
			_, err := tx.RefreshTokens.RevokeAllByUserID(ctx, user.ID, time.Now())
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	user.Status = status

	log.Printf("✅ User %d status changed to %s by %d", user.ID, status, p.UserID)
	return user, nil
}

// List returns every account ordered by id
func (s *UserService) List(ctx context.Context, p domain.Principal, params *pagination.Params) ([]*models.UserResponse, int64, error) {
	if !domain.Can(p.Role, domain.ActionManageUsers) {
		return nil, 0, domain.ErrForbidden
	}

	users, total, err := s.store.Users.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToResponse())
	}
	return out, total, nil
}

// target loads the account being administered; admins may not target themselves
func (s *UserService) target(ctx context.Context, p domain.Principal, userID uint) (*models.User, error) {
	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if user.ID == p.UserID {
		return nil, domain.ErrCannotModifySelf
	}
	return user, nil
}
