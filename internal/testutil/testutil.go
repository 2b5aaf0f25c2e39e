// Package testutil provides an in-memory database and fixtures shared by the
// repository, service and HTTP tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"geocatch/internal/model"
)

// NewTestDB opens a private in-memory SQLite database with the schema applied.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	if err := db.AutoMigrate(model.Models()...); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	// a shared-cache memory database lives as long as one connection is open
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// CreateUser inserts a user directly, bypassing the account service.
func CreateUser(t *testing.T, db *gorm.DB, username, email, password string) *model.User {
	t.Helper()

	user := &model.User{Username: username, Email: email, Password: password}
	if err := db.WithContext(context.Background()).Create(user).Error; err != nil {
		t.Fatalf("failed to create user %q: %v", username, err)
	}
	return user
}

// CreateCache inserts a cache owned by creatorID.
func CreateCache(t *testing.T, db *gorm.DB, creatorID uint, lat, lon float64) *model.Cache {
	t.Helper()

	cache := &model.Cache{
		ID:          uuid.NewString(),
		Latitude:    lat,
		Longitude:   lon,
		Difficulty:  1,
		Description: "fixture",
		CreatorID:   creatorID,
	}
	if err := db.WithContext(context.Background()).Omit("Creator").Create(cache).Error; err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	return cache
}
