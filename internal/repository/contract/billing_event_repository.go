package contract

import (
	"context"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/repository/specification"

	"github.com/google/uuid"
)

type BillingEventRepository interface {
	Create(ctx context.Context, event *entity.BillingEvent) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error
}
