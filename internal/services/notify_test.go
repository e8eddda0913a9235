package services

import (
	"testing"

	"murmur/internal/models"
)

func TestPublishOverwritesByName(t *testing.T) {
	conn := testDB(t)
	clock := newTickingClock()
	notify := NewNotificationService(conn).WithClock(clock.Now)

	user := createUser(t, conn, "alice")

	firstID, err := notify.Publish(user.ID, "unread_message_count", 3)
	if err != nil {
		t.Fatalf("first publish failed: %v", err)
	}
	secondID, err := notify.Publish(user.ID, "unread_message_count", 5)
	if err != nil {
		t.Fatalf("second publish failed: %v", err)
	}
	if firstID == secondID {
		t.Fatal("expected a fresh notification row on republish")
	}

	var rows []models.Notification
	if err := conn.Where("user_id = ?", user.ID).Find(&rows).Error; err != nil {
		t.Fatalf("load notifications: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly one live notification, got %d", len(rows))
	}
	if rows[0].Payload != "5" {
		t.Fatalf("expected payload 5, got %q", rows[0].Payload)
	}

	// A different name does not collide.
	if _, err := notify.Publish(user.ID, "task_progress", map[string]int{"done": 10}); err != nil {
		t.Fatalf("publish second name: %v", err)
	}
	var count int64
	conn.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 2 {
		t.Fatalf("expected two notifications across names, got %d", count)
	}
}

func TestFetchFiltersAndOrders(t *testing.T) {
	conn := testDB(t)
	clock := newTickingClock()
	notify := NewNotificationService(conn).WithClock(clock.Now)

	user := createUser(t, conn, "bob")

	if _, err := notify.Publish(user.ID, "first", "a"); err != nil {
		t.Fatal(err)
	}
	views, err := notify.Fetch(user.ID, 0)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected one notification, got %d", len(views))
	}
	cursor := views[0].Timestamp

	if _, err := notify.Publish(user.ID, "second", "b"); err != nil {
		t.Fatal(err)
	}
	if _, err := notify.Publish(user.ID, "third", "c"); err != nil {
		t.Fatal(err)
	}

	// Strictly-greater cursor excludes the first notification.
	views, err = notify.Fetch(user.ID, cursor)
	if err != nil {
		t.Fatalf("fetch with cursor failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected two notifications after cursor, got %d", len(views))
	}
	if views[0].Name != "second" || views[1].Name != "third" {
		t.Fatalf("expected ascending order [second third], got [%s %s]", views[0].Name, views[1].Name)
	}
	if views[1].Timestamp <= views[0].Timestamp {
		t.Fatal("expected ascending timestamps")
	}
}

func TestFetchDoesNotLeakAcrossOwners(t *testing.T) {
	conn := testDB(t)
	notify := NewNotificationService(conn)

	alice := createUser(t, conn, "alice")
	bob := createUser(t, conn, "bob")

	if _, err := notify.Publish(alice.ID, "n", 1); err != nil {
		t.Fatal(err)
	}
	views, err := notify.Fetch(bob.ID, 0)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("expected no notifications for other owner, got %d", len(views))
	}
}

func TestFetchPayloadRoundTrip(t *testing.T) {
	conn := testDB(t)
	notify := NewNotificationService(conn)

	user := createUser(t, conn, "carol")
	payload := map[string]interface{}{"count": float64(7), "label": "inbox"}
	if _, err := notify.Publish(user.ID, "structured", payload); err != nil {
		t.Fatal(err)
	}

	views, err := notify.Fetch(user.ID, 0)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	got, ok := views[0].Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected decoded object payload, got %T", views[0].Data)
	}
	if got["count"] != float64(7) || got["label"] != "inbox" {
		t.Fatalf("payload did not round-trip: %v", got)
	}
}

func TestFetchMalformedPayloadSurfacesRawText(t *testing.T) {
	conn := testDB(t)
	notify := NewNotificationService(conn)

	user := createUser(t, conn, "dave")
	// Simulate a corrupted row written outside the publish path.
	row := models.Notification{UserID: user.ID, Name: "broken", Payload: "{not json"}
	if err := conn.Create(&row).Error; err != nil {
		t.Fatalf("insert corrupted row: %v", err)
	}

	views, err := notify.Fetch(user.ID, 0)
	if err != nil {
		t.Fatalf("fetch must not fail on malformed payload: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected the corrupted notification to be visible, got %d rows", len(views))
	}
	if views[0].Data != "{not json" {
		t.Fatalf("expected raw text fallback, got %v", views[0].Data)
	}
}
