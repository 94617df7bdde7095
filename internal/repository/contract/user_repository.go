package contract

import (
	"context"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	// CreateIfAbsent inserts the user unless a row with the same id exists.
	CreateIfAbsent(ctx context.Context, user *entity.User) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
