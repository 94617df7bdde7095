package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateFolderRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type CreateFolderResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateFolderRequest struct {
	Id   uuid.UUID `json:"-"`
	Name string    `json:"name" validate:"required,max=255"`
}

type FolderResponse struct {
	Id        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	NoteCount int64      `json:"note_count"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
