package contract

import (
	"context"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	Update(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error
	// Unfile detaches every note from the folder.
	Unfile(ctx context.Context, folderId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// CountByFolder returns active note counts keyed by folder id.
	CountByFolder(ctx context.Context, userId uuid.UUID) (map[uuid.UUID]int64, error)
}
