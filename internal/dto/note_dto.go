package dto

import (
	"time"

	"github.com/google/uuid"
)

const (
	NoteFilterAll       = "all"
	NoteFilterFavorites = "favorites"
	NoteFilterArchived  = "archived"
	NoteFilterTrash     = "trash"
)

type CreateNoteRequest struct {
	Title    string     `json:"title" validate:"required,max=255"`
	Content  string     `json:"content"`
	FolderId *uuid.UUID `json:"folder_id"`
}

type CreateNoteResponse struct {
	Id uuid.UUID `json:"id"`
}

type ListNotesRequest struct {
	Filter   string `query:"filter" validate:"omitempty,oneof=all favorites archived trash"`
	FolderId string `query:"folder_id" validate:"omitempty,uuid"`
	Query    string `query:"q" validate:"max=255"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset   int    `query:"offset" validate:"omitempty,min=0"`
}

type NoteResponse struct {
	Id         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	FolderId   *uuid.UUID `json:"folder_id"`
	IsFavorite bool       `json:"is_favorite"`
	IsArchived bool       `json:"is_archived"`
	IsTrashed  bool       `json:"is_trashed"`
	TrashedAt  *time.Time `json:"trashed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

type UpdateNoteRequest struct {
	Id      uuid.UUID `json:"-"`
	Title   string    `json:"title" validate:"required,max=255"`
	Content string    `json:"content"`
}

// MoveNoteRequest files a note into a folder. A null folder_id unfiles it.
type MoveNoteRequest struct {
	Id       uuid.UUID  `json:"-"`
	FolderId *uuid.UUID `json:"folder_id"`
}

type SetNoteFlagRequest struct {
	Value *bool `json:"value" validate:"required"`
}

type EmptyTrashResponse struct {
	Deleted int64 `json:"deleted"`
}
