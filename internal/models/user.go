package models

import (
	"time"
)

type User struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Username          string     `gorm:"uniqueIndex;size:32;not null" json:"username"`
	Email             string     `gorm:"uniqueIndex;size:64;not null" json:"email"`
	Password          string     `gorm:"not null" json:"-"` // bcrypt hash
	About             string     `gorm:"size:140" json:"about"`
	Karma             int        `gorm:"default:0" json:"karma"` // net vote deltas on this user's content
	LastSeenAt        *time.Time `json:"last_seen_at"`
	LastMessageReadAt *time.Time `json:"-"` // inbox watermark; nil means never read
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
