package models

import (
	"time"
)

type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	User        User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	CommunityID *uint      `gorm:"index" json:"community_id"` // nil means the global/explore feed
	Community   *Community `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"community,omitempty"`
	Body        string     `gorm:"size:140;not null" json:"body"`
	Karma       int        `gorm:"default:0" json:"karma"` // #up − #down, one vote per user
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`

	// Filled at query time, not a column.
	CommentCount int `gorm:"-" json:"comment_count"`
}
