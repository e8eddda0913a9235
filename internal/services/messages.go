package services

import (
	"errors"
	"time"

	"murmur/internal/models"

	"gorm.io/gorm"
)

// ErrRecipientNotFound is returned when sending to an unknown user.
var ErrRecipientNotFound = errors.New("recipient not found")

// MessageService stores private messages and keeps the recipient's
// unread-count notification in step with the inbox watermark.
type MessageService struct {
	db     *gorm.DB
	notify *NotificationService
	clock  func() time.Time
}

func NewMessageService(db *gorm.DB, notify *NotificationService) *MessageService {
	return &MessageService{db: db, notify: notify, clock: time.Now}
}

// WithClock overrides the timestamp source for tests.
func (s *MessageService) WithClock(clock func() time.Time) *MessageService {
	s.clock = clock
	return s
}

// Send stores a message and republishes the recipient's
// unread_message_count notification with the new count, in one
// transaction.
func (s *MessageService) Send(senderID, recipientID uint, body string) (*models.Message, error) {
	msg := models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
		CreatedAt:   s.clock(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var recipient models.User
		if err := tx.First(&recipient, recipientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipientNotFound
			}
			return err
		}

		if err := tx.Create(&msg).Error; err != nil {
			return err
		}

		count, err := s.unreadCountTx(tx, &recipient)
		if err != nil {
			return err
		}
		_, err = s.notify.publishTx(tx, recipientID, models.NotificationUnreadMessageCount, count)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// UnreadCount is the number of messages received after the owner's
// inbox watermark. A never-set watermark counts everything.
func (s *MessageService) UnreadCount(userID uint) (int64, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return 0, err
	}
	return s.unreadCountTx(s.db, &user)
}

func (s *MessageService) unreadCountTx(tx *gorm.DB, user *models.User) (int64, error) {
	q := tx.Model(&models.Message{}).Where("recipient_id = ?", user.ID)
	if user.LastMessageReadAt != nil {
		q = q.Where("created_at > ?", *user.LastMessageReadAt)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

// MarkInboxRead advances the owner's watermark to now and zeroes the
// unread notification. The watermark write and the publish commit
// together, watermark first, so no reader can observe a stale non-zero
// count after the zero notification.
func (s *MessageService) MarkInboxRead(userID uint) error {
	now := s.clock()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("last_message_read_at", now).Error; err != nil {
			return err
		}
		_, err := s.notify.publishTx(tx, userID, models.NotificationUnreadMessageCount, 0)
		return err
	})
}

// Received lists userID's inbox, newest first.
func (s *MessageService) Received(userID uint, page, perPage int) ([]models.Message, error) {
	var msgs []models.Message
	err := s.db.Preload("Sender").
		Where("recipient_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(pageOffset(page, perPage)).
		Limit(perPage).
		Find(&msgs).Error
	return msgs, err
}

// Delete removes one received message. Only the recipient may delete.
func (s *MessageService) Delete(userID, messageID uint) error {
	res := s.db.Where("id = ? AND recipient_id = ?", messageID, userID).
		Delete(&models.Message{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func pageOffset(page, perPage int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * perPage
}
