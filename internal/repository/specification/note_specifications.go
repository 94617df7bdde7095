package specification

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActiveNotes are the notes that count toward quota.
type ActiveNotes struct{}

func (s ActiveNotes) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_trashed = ?", false)
}

type TrashedNotes struct{}

func (s TrashedNotes) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_trashed = ?", true)
}

type FavoriteNotes struct{}

func (s FavoriteNotes) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_favorite = ? AND is_trashed = ?", true, false)
}

type ArchivedNotes struct{}

func (s ArchivedNotes) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_archived = ? AND is_trashed = ?", true, false)
}

// InboxNotes is the default listing: neither trashed nor archived.
type InboxNotes struct{}

func (s InboxNotes) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_trashed = ? AND is_archived = ?", false, false)
}

type ByFolderID struct {
	FolderID uuid.UUID
}

func (s ByFolderID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("folder_id = ?", s.FolderID)
}

// NoteSearchQuery matches title or content case-insensitively.
type NoteSearchQuery struct {
	Query string
}

func (s NoteSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + strings.ToLower(s.Query) + "%"
	return db.Where("(LOWER(title) LIKE ? OR LOWER(content) LIKE ?)", pattern, pattern)
}
