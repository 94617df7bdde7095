package entitlement

import (
	"context"

	"notekeeper-be/internal/pkg/logger"

	"github.com/google/uuid"
)

type DenyReason string

const (
	NoteLimitReached   DenyReason = "NOTE_LIMIT_REACHED"
	FolderLimitReached DenyReason = "FOLDER_LIMIT_REACHED"
)

func denyReasonFor(kind ResourceKind) DenyReason {
	if kind == ResourceFolder {
		return FolderLimitReached
	}
	return NoteLimitReached
}

type Decision struct {
	Allowed bool
	Reason  DenyReason
	Kind    ResourceKind
	Plan    Plan
	Count   int64
	Limit   int64
}

// Err returns nil for an allow and a *DeniedError for a deny.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{Reason: d.Reason, Kind: d.Kind, Limit: d.Limit}
}

// Snapshot is the quota state of one user at one instant. It is computed on
// demand and never stored.
type Snapshot struct {
	Plan         Plan
	NotesCount   int64
	FoldersCount int64
	NoteLimit    int64
	FolderLimit  int64
}

type Gate struct {
	resolver PlanResolver
	counter  ResourceCounter
	logger   logger.ILogger
}

func NewGate(resolver PlanResolver, counter ResourceCounter, logger logger.ILogger) *Gate {
	return &Gate{
		resolver: resolver,
		counter:  counter,
		logger:   logger,
	}
}

// CheckAndReserve must run before the creation write. Nothing is held
// between the check and the insert, so concurrent creations may overshoot
// a limit by the number of in-flight requests.
func (g *Gate) CheckAndReserve(ctx context.Context, userID uuid.UUID, kind ResourceKind) (Decision, error) {
	if !kind.Valid() {
		return Decision{}, ErrUnknownResource
	}

	plan, err := g.resolver.Resolve(ctx, userID)
	if err != nil {
		return Decision{}, err
	}

	decision := Decision{
		Allowed: true,
		Kind:    kind,
		Plan:    plan,
		Limit:   EffectiveLimit(plan.Tier, plan.Status, kind),
	}

	count, err := g.counter.Count(ctx, userID, kind)
	if err != nil {
		return Decision{}, err
	}
	decision.Count = count

	if !Allow(plan.Tier, plan.Status, kind, count) {
		decision.Allowed = false
		decision.Reason = denyReasonFor(kind)
		g.logger.Info("ENTITLEMENT", "Creation denied by plan limit", map[string]interface{}{
			"user_id": userID.String(),
			"kind":    string(kind),
			"count":   count,
			"limit":   decision.Limit,
			"tier":    string(plan.Tier),
			"status":  string(plan.Status),
		})
	}

	return decision, nil
}

// Snapshot reads plan and both counts fresh from storage.
func (g *Gate) Snapshot(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	plan, err := g.resolver.Resolve(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}

	notes, err := g.counter.Count(ctx, userID, ResourceNote)
	if err != nil {
		return Snapshot{}, err
	}
	folders, err := g.counter.Count(ctx, userID, ResourceFolder)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Plan:         plan,
		NotesCount:   notes,
		FoldersCount: folders,
		NoteLimit:    EffectiveLimit(plan.Tier, plan.Status, ResourceNote),
		FolderLimit:  EffectiveLimit(plan.Tier, plan.Status, ResourceFolder),
	}, nil
}
