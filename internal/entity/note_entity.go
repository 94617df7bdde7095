package entity

import (
	"time"

	"github.com/google/uuid"
)

// Note flags are independent of each other. A trashed note keeps its
// favorite/archived flags so a restore brings it back unchanged.
type Note struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	FolderId   *uuid.UUID
	Title      string
	Content    string
	IsFavorite bool
	IsArchived bool
	IsTrashed  bool
	TrashedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}
