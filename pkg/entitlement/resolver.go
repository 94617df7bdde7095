package entitlement

import (
	"context"
	"fmt"
	"time"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type Plan struct {
	Tier      entity.Tier
	Status    entity.SubscriptionStatus
	PeriodEnd *time.Time
}

// DefaultPlan is the plan of a user that has no subscription row.
func DefaultPlan() Plan {
	return Plan{Tier: entity.TierFree, Status: entity.SubscriptionStatusActive}
}

func (p Plan) Entitled() bool {
	return Entitled(p.Tier, p.Status)
}

type PlanResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (Plan, error)
}

type StoreResolver struct {
	factory unitofwork.RepositoryFactory
	logger  logger.ILogger
}

func NewStoreResolver(factory unitofwork.RepositoryFactory, logger logger.ILogger) *StoreResolver {
	return &StoreResolver{factory: factory, logger: logger}
}

// Resolve reads the subscription row verbatim. A missing row resolves to
// the default plan without writing one.
func (r *StoreResolver) Resolve(ctx context.Context, userID uuid.UUID) (Plan, error) {
	uow := r.factory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByUserID{UserID: userID})
	if err != nil {
		r.logger.Error("ENTITLEMENT", "Failed to resolve plan", map[string]interface{}{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
		return Plan{}, fmt.Errorf("%w: %v", ErrResolutionFailed, err)
	}
	if sub == nil {
		return DefaultPlan(), nil
	}

	return Plan{
		Tier:      sub.Plan,
		Status:    sub.Status,
		PeriodEnd: sub.PeriodEnd,
	}, nil
}
