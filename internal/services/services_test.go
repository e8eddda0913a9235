package services

import (
	"testing"
	"time"

	"murmur/internal/db"
	"murmur/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(conn); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return conn
}

func createUser(t *testing.T, conn *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "irrelevant",
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return &user
}

func createPost(t *testing.T, conn *gorm.DB, owner *models.User, body string) *models.Post {
	t.Helper()
	post := models.Post{UserID: owner.ID, Body: body}
	if err := conn.Create(&post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return &post
}

// tickingClock hands out strictly increasing timestamps so ordering
// assertions do not depend on wall-clock resolution.
type tickingClock struct {
	t time.Time
}

func newTickingClock() *tickingClock {
	return &tickingClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}
