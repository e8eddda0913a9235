package services

import (
	"encoding/json"
	"time"

	"murmur/internal/models"

	"gorm.io/gorm"
)

// NotificationView is one fetched notification. Timestamp is unix
// seconds so the value doubles as the next fetch cursor.
type NotificationView struct {
	Name      string      `json:"name"`
	Data      interface{} `json:"data"`
	Timestamp float64     `json:"timestamp"`
}

// NotificationService maintains at most one live notification per
// (owner, name) pair.
type NotificationService struct {
	db    *gorm.DB
	clock func() time.Time
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db, clock: time.Now}
}

// WithClock overrides the timestamp source; tests use this to order
// notifications deterministically.
func (s *NotificationService) WithClock(clock func() time.Time) *NotificationService {
	s.clock = clock
	return s
}

// Publish replaces any prior (owner, name) notification with a fresh
// one carrying the JSON-serialized payload. Delete and insert commit
// together.
func (s *NotificationService) Publish(ownerID uint, name string, payload interface{}) (uint, error) {
	var id uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		n, err := s.publishTx(tx, ownerID, name, payload)
		if err != nil {
			return err
		}
		id = n
		return nil
	})
	return id, err
}

// publishTx is Publish running on an existing transaction, so message
// delivery and inbox reads can bundle the notification write with
// their own state changes.
func (s *NotificationService) publishTx(tx *gorm.DB, ownerID uint, name string, payload interface{}) (uint, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}

	if err := tx.Where("user_id = ? AND name = ?", ownerID, name).
		Delete(&models.Notification{}).Error; err != nil {
		return 0, err
	}

	n := models.Notification{
		UserID:    ownerID,
		Name:      name,
		Payload:   string(raw),
		CreatedAt: s.clock(),
	}
	if err := tx.Create(&n).Error; err != nil {
		return 0, err
	}
	return n.ID, nil
}

// Fetch returns ownerID's notifications with a timestamp strictly
// after the unix-seconds cursor, ascending, ties broken by insertion
// order. A payload that fails to decode is surfaced as its raw text
// rather than failing the fetch.
func (s *NotificationService) Fetch(ownerID uint, sinceUnix float64) ([]NotificationView, error) {
	since := unixToTime(sinceUnix)

	var rows []models.Notification
	if err := s.db.
		Where("user_id = ? AND created_at > ?", ownerID, since).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]NotificationView, 0, len(rows))
	for _, row := range rows {
		var data interface{}
		if err := json.Unmarshal([]byte(row.Payload), &data); err != nil {
			data = row.Payload
		}
		views = append(views, NotificationView{
			Name:      row.Name,
			Data:      data,
			Timestamp: timeToUnix(row.CreatedAt),
		})
	}
	return views, nil
}

func unixToTime(sec float64) time.Time {
	whole := int64(sec)
	frac := sec - float64(whole)
	return time.Unix(whole, int64(frac*float64(time.Second)))
}

func timeToUnix(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
