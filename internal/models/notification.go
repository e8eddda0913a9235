package models

import (
	"time"
)

// Well-known notification names.
const (
	NotificationUnreadMessageCount = "unread_message_count"
)

// Notification is a named, timestamped event for one user. At most one
// live row exists per (UserID, Name); publishing again under the same
// name replaces the previous row.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_notification_owner_name" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Name      string    `gorm:"size:128;not null;index:idx_notification_owner_name" json:"name"`
	Payload   string    `gorm:"type:text" json:"payload"` // JSON text, round-trips exactly
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
