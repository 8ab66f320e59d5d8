package services

import (
	"context"
	"time"

	"debo-loans/internal/adapters/mail"
	"debo-loans/internal/core/domain"
)

// Mailer sends transactional email
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

// EventPublisher forwards notification events to a broker
type EventPublisher interface {
	Publish(ctx context.Context, event domain.NotificationEvent) error
}

// ReceiptStore keeps payment receipt bodies and returns their URL
type ReceiptStore interface {
	Put(ctx context.Context, receiptNumber string, body []byte) (string, error)
	Remove(ctx context.Context, receiptNumber string) error
}

// Clock returns the current time
type Clock func() time.Time
