package services

import (
	"errors"
	"testing"

	"murmur/internal/models"

	"gorm.io/gorm"
)

func newMessageFixture(t *testing.T) (*gorm.DB, *MessageService, *NotificationService) {
	t.Helper()
	conn := testDB(t)
	clock := newTickingClock()
	notify := NewNotificationService(conn).WithClock(clock.Now)
	messages := NewMessageService(conn, notify).WithClock(clock.Now)
	return conn, messages, notify
}

func TestSendPublishesUnreadCount(t *testing.T) {
	conn, messages, notify := newMessageFixture(t)

	sender := createUser(t, conn, "sender")
	recipient := createUser(t, conn, "recipient")

	if _, err := messages.Send(sender.ID, recipient.ID, "hello"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if _, err := messages.Send(sender.ID, recipient.ID, "hello again"); err != nil {
		t.Fatalf("second send failed: %v", err)
	}

	count, err := messages.UnreadCount(recipient.ID)
	if err != nil {
		t.Fatalf("unread count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 unread, got %d", count)
	}

	// Exactly one unread_message_count notification, holding the
	// latest count.
	views, err := notify.Fetch(recipient.ID, 0)
	if err != nil {
		t.Fatalf("fetch notifications: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected one notification, got %d", len(views))
	}
	if views[0].Name != models.NotificationUnreadMessageCount {
		t.Fatalf("unexpected notification name %q", views[0].Name)
	}
	if views[0].Data != float64(2) {
		t.Fatalf("expected unread payload 2, got %v", views[0].Data)
	}
}

func TestSendToUnknownRecipient(t *testing.T) {
	conn, messages, _ := newMessageFixture(t)
	sender := createUser(t, conn, "sender")

	_, err := messages.Send(sender.ID, 404, "hello?")
	if !errors.Is(err, ErrRecipientNotFound) {
		t.Fatalf("expected ErrRecipientNotFound, got %v", err)
	}

	var count int64
	conn.Model(&models.Message{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no message stored, got %d", count)
	}
}

func TestMarkInboxReadZeroesUnread(t *testing.T) {
	conn, messages, notify := newMessageFixture(t)

	sender := createUser(t, conn, "sender")
	recipient := createUser(t, conn, "recipient")

	if _, err := messages.Send(sender.ID, recipient.ID, "unread me"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if err := messages.MarkInboxRead(recipient.ID); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}

	count, err := messages.UnreadCount(recipient.ID)
	if err != nil {
		t.Fatalf("unread count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 unread after reading, got %d", count)
	}

	views, _ := notify.Fetch(recipient.ID, 0)
	if len(views) != 1 || views[0].Data != float64(0) {
		t.Fatalf("expected single zeroed notification, got %v", views)
	}

	// Idempotent: reading again with no new messages stays at zero.
	if err := messages.MarkInboxRead(recipient.ID); err != nil {
		t.Fatalf("second mark read failed: %v", err)
	}
	count, _ = messages.UnreadCount(recipient.ID)
	if count != 0 {
		t.Fatalf("expected 0 unread after second read, got %d", count)
	}

	// A message arriving after the watermark counts again.
	if _, err := messages.Send(sender.ID, recipient.ID, "new one"); err != nil {
		t.Fatalf("send after read failed: %v", err)
	}
	count, _ = messages.UnreadCount(recipient.ID)
	if count != 1 {
		t.Fatalf("expected 1 unread after new message, got %d", count)
	}
}

func TestReceivedNewestFirst(t *testing.T) {
	conn, messages, _ := newMessageFixture(t)

	sender := createUser(t, conn, "sender")
	recipient := createUser(t, conn, "recipient")

	for _, body := range []string{"one", "two", "three"} {
		if _, err := messages.Send(sender.ID, recipient.ID, body); err != nil {
			t.Fatalf("send %q failed: %v", body, err)
		}
	}

	msgs, err := messages.Received(recipient.ID, 1, 10)
	if err != nil {
		t.Fatalf("received failed: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[0].Body != "three" || msgs[2].Body != "one" {
		t.Fatalf("expected newest first, got %q..%q", msgs[0].Body, msgs[2].Body)
	}
}

func TestDeleteOnlyByRecipient(t *testing.T) {
	conn, messages, _ := newMessageFixture(t)

	sender := createUser(t, conn, "sender")
	recipient := createUser(t, conn, "recipient")

	msg, err := messages.Send(sender.ID, recipient.ID, "delete me")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if err := messages.Delete(sender.ID, msg.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected sender delete to be rejected, got %v", err)
	}
	if err := messages.Delete(recipient.ID, msg.ID); err != nil {
		t.Fatalf("recipient delete failed: %v", err)
	}
}
