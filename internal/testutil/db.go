// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/model"
	"notekeeper-be/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory sqlite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.NewSQLiteDB(dsn, "silent")
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedUser inserts a user and returns its id.
func SeedUser(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Create(&model.User{Id: id, Email: id.String() + "@example.com"}).Error)
	return id
}

// SeedNotes inserts n notes for the user, trashed or not.
func SeedNotes(t *testing.T, db *gorm.DB, userID uuid.UUID, n int, trashed bool) {
	t.Helper()
	for i := 0; i < n; i++ {
		note := &model.Note{
			Id:        uuid.New(),
			UserId:    userID,
			Title:     fmt.Sprintf("note %d", i),
			IsTrashed: trashed,
		}
		if trashed {
			now := time.Now().UTC()
			note.TrashedAt = &now
		}
		require.NoError(t, db.Create(note).Error)
	}
}

// SeedFolders inserts n folders for the user.
func SeedFolders(t *testing.T, db *gorm.DB, userID uuid.UUID, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, db.Create(&model.Folder{
			Id:     uuid.New(),
			UserId: userID,
			Name:   fmt.Sprintf("folder %d", i),
		}).Error)
	}
}

// SeedSubscription writes a subscription row for the user.
func SeedSubscription(t *testing.T, db *gorm.DB, userID uuid.UUID, tier entity.Tier, status entity.SubscriptionStatus, updatedAt time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&model.Subscription{
		Id:        uuid.New(),
		UserId:    userID,
		Plan:      string(tier),
		Status:    string(status),
		UpdatedAt: updatedAt.UTC(),
	}).Error)
}
