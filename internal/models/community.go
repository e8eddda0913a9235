package models

import (
	"time"
)

type Community struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	About     string    `gorm:"type:text" json:"about"`
	CreatedAt time.Time `json:"created_at"`
}

// CommunityMember is the directed "joined" edge between a user and a
// community.
type CommunityMember struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index;uniqueIndex:idx_member_user_community" json:"user_id"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CommunityID uint      `gorm:"not null;index;uniqueIndex:idx_member_user_community" json:"community_id"`
	Community   Community `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
