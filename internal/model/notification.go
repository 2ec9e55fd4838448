package model

import "time"

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationOrderReceived      NotificationType = "order_received"
	NotificationOrderStatusChanged NotificationType = "order_status_changed"
	NotificationNewReview          NotificationType = "new_review"
	NotificationLowStock           NotificationType = "low_stock"
	NotificationSystem             NotificationType = "system"
)

// Notification is a persisted fire-and-forget message for a user.
// Data carries an opaque JSON payload tied to the notification type.
type Notification struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	Type      NotificationType `json:"type" gorm:"type:varchar(32);not null;index"`
	Title     string           `json:"title" gorm:"size:255;not null"`
	Message   string           `json:"message" gorm:"size:512;not null"`
	IsRead    bool             `json:"is_read" gorm:"default:false;index"`
	UserID    uint             `json:"user_id" gorm:"not null;index"`
	Data      string           `json:"data,omitempty" gorm:"type:text"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
