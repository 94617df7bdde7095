package contract

import (
	"context"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SubscriptionRepository interface {
	// FindOne returns nil, nil when the user has no row.
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)
	// CreateIfAbsent inserts the row unless the user already has one.
	CreateIfAbsent(ctx context.Context, subscription *entity.Subscription) (bool, error)
	// Upsert writes the full state keyed by user id. It reports false and
	// leaves storage untouched when the stored row is newer than
	// subscription.UpdatedAt.
	Upsert(ctx context.Context, subscription *entity.Subscription) (bool, error)
	SetCustomerRef(ctx context.Context, userId uuid.UUID, ref string) error
	DeleteByUserId(ctx context.Context, userId uuid.UUID) error
}
