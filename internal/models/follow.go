package models

import (
	"time"
)

// Follow is a directed edge: follower reads followed's posts. Self
// loops are not prevented here; callers reject them before insert.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follower_followed" json:"follower_id"`
	Follower   User      `gorm:"foreignKey:FollowerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	FollowedID uint      `gorm:"not null;index;uniqueIndex:idx_follower_followed" json:"followed_id"`
	Followed   User      `gorm:"foreignKey:FollowedID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
