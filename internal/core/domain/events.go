package domain

import "time"

// NotificationEvent is the broker payload emitted for every stored notification
type NotificationEvent struct {
	NotificationID uint      `json:"notification_id"`
	UserID         uint      `json:"user_id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}
