package models

import (
	"time"
)

// Message is a private note between two users. There is no per-message
// read flag; read state is derived from the recipient's inbox watermark
// (User.LastMessageReadAt).
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SenderID    uint      `gorm:"not null;index" json:"sender_id"`
	Sender      User      `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sender"`
	RecipientID uint      `gorm:"not null;index" json:"recipient_id"`
	Recipient   User      `gorm:"foreignKey:RecipientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Body        string    `gorm:"size:140;not null" json:"body"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
