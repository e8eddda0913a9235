package models

import (
	"time"
)

// Vote records that a user has voted on an item. The direction is
// deliberately not stored: it is only reflected in the karma counters,
// so a vote can never be changed or retracted.
//
// Exactly one of PostID/CommentID is set. The per-kind unique indexes
// enforce at-most-one-vote-per-user-per-item at the storage layer;
// Postgres and SQLite both treat NULLs as distinct, so the unused
// column does not collide across rows.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_vote_user_post;uniqueIndex:idx_vote_user_comment" json:"user_id"`
	PostID    *uint     `gorm:"index;uniqueIndex:idx_vote_user_post" json:"post_id"`
	CommentID *uint     `gorm:"index;uniqueIndex:idx_vote_user_comment" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}
