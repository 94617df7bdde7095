package service

import (
	"context"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/entity"
	"notekeeper-be/pkg/entitlement"

	"github.com/google/uuid"
)

type UsageReader interface {
	Snapshot(ctx context.Context, userID uuid.UUID) (entitlement.Snapshot, error)
}

// ProPricing is what the catalogue shows for the paid tier.
type ProPricing struct {
	Price         int64
	BillingPeriod string
}

type IPlanService interface {
	Usage(ctx context.Context, userId uuid.UUID) (*dto.UsageResponse, error)
	Plans() []dto.PlanCatalogueItem
}

type planService struct {
	usage   UsageReader
	pricing ProPricing
}

func NewPlanService(usage UsageReader, pricing ProPricing) IPlanService {
	return &planService{usage: usage, pricing: pricing}
}

// Usage is read fresh on every call; nothing here is cached.
func (s *planService) Usage(ctx context.Context, userId uuid.UUID) (*dto.UsageResponse, error) {
	snapshot, err := s.usage.Snapshot(ctx, userId)
	if err != nil {
		return nil, err
	}

	return &dto.UsageResponse{
		Tier:             string(snapshot.Plan.Tier),
		Status:           string(snapshot.Plan.Status),
		PeriodEnd:        snapshot.Plan.PeriodEnd,
		NotesCount:       snapshot.NotesCount,
		FoldersCount:     snapshot.FoldersCount,
		NoteLimit:        snapshot.NoteLimit,
		FolderLimit:      snapshot.FolderLimit,
		UpgradeAvailable: !snapshot.Plan.Entitled(),
	}, nil
}

func (s *planService) Plans() []dto.PlanCatalogueItem {
	return []dto.PlanCatalogueItem{
		{
			Tier:        string(entity.TierFree),
			Name:        "Free",
			Tagline:     "Everything you need to get started",
			NoteLimit:   entitlement.EffectiveLimit(entity.TierFree, entity.SubscriptionStatusActive, entitlement.ResourceNote),
			FolderLimit: entitlement.EffectiveLimit(entity.TierFree, entity.SubscriptionStatusActive, entitlement.ResourceFolder),
		},
		{
			Tier:          string(entity.TierPro),
			Name:          "Pro",
			Tagline:       "Unlimited notes and folders",
			Price:         s.pricing.Price,
			BillingPeriod: s.pricing.BillingPeriod,
			NoteLimit:     entitlement.EffectiveLimit(entity.TierPro, entity.SubscriptionStatusActive, entitlement.ResourceNote),
			FolderLimit:   entitlement.EffectiveLimit(entity.TierPro, entity.SubscriptionStatusActive, entitlement.ResourceFolder),
		},
	}
}
