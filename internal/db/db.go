package db

import (
	"murmur/internal/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB is the shared handle used by handlers; services receive it
// explicitly so they stay testable against an in-memory database.
var DB *gorm.DB

// Init opens the database and migrates the schema. A non-empty dsn
// selects Postgres; otherwise the pure-Go SQLite driver is used with
// sqlitePath (dev fallback and tests).
//
// TranslateError is required: the vote ledger relies on unique-index
// violations surfacing as gorm.ErrDuplicatedKey to close the
// check-then-insert race on duplicate votes.
func Init(dsn, sqlitePath string, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if dsn != "" {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(sqlitePath)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if dsn == "" {
		// SQLite tolerates a single writer.
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	if err := Migrate(conn); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("database initialized", zap.Bool("postgres", dsn != ""))
	}

	DB = conn
	return conn, nil
}

// Migrate creates or updates the full relational schema.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.User{},
		&models.Community{},
		&models.Post{},
		&models.Comment{},
		&models.Vote{},
		&models.Message{},
		&models.Notification{},
		&models.Follow{},
		&models.CommunityMember{},
	)
}
