package services

import (
	"context"
	"fmt"

	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/adapters/persistence/repositories"
	"debo-loans/internal/core/domain"
	"debo-loans/internal/pkg/metrics"
	"debo-loans/internal/pkg/pagination"
)

// NotificationService stores notifications and forwards them to the broker
type NotificationService struct {
	store     *repositories.Store
	publisher EventPublisher
	bg        *Background
}

// NewNotificationService creates a new notification service
func NewNotificationService(store *repositories.Store, publisher EventPublisher, bg *Background) *NotificationService {
	return &NotificationService{
		store:     store,
		publisher: publisher,
		bg:        bg,
	}
}

// Record writes a notification through tx so it commits with the mutation that caused it
func (s *NotificationService) Record(ctx context.Context, tx *repositories.Store, userID uint, title, message string) (*models.Notification, error) {
	n := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
	}
	if err := tx.Notifications.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

// Publish forwards committed notifications to the broker in the background
func (s *NotificationService) Publish(notifications ...*models.Notification) {
	for _, n := range notifications {
		event := domain.NotificationEvent{
			NotificationID: n.ID,
			UserID:         n.UserID,
			Title:          n.Title,
			Message:        n.Message,
			CreatedAt:      n.CreatedAt,
		}
		s.bg.Go(fmt.Sprintf("publish notification %d", n.ID), func(ctx context.Context) error {
			err := s.publisher.Publish(ctx, event)
			if err != nil {
				metrics.NotificationPublishFailures.Inc()
			}
			return err
		})
	}
}

// List returns the caller's notifications, newest first
func (s *NotificationService) List(ctx context.Context, p domain.Principal, params *pagination.Params) ([]*models.Notification, int64, error) {
	return s.store.Notifications.ListByUserID(ctx, p.UserID, params.Offset, params.Limit)
}
