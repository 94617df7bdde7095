package entitlement

import "notekeeper-be/internal/entity"

type ResourceKind string

const (
	ResourceNote   ResourceKind = "note"
	ResourceFolder ResourceKind = "folder"
)

func (k ResourceKind) Valid() bool {
	return k == ResourceNote || k == ResourceFolder
}

// Free tier thresholds. Nothing else in the service hardcodes these numbers.
const (
	FreeNoteLimit   int64 = 20
	FreeFolderLimit int64 = 5
)

// Unlimited is how snapshots report the limit of an entitled plan.
const Unlimited int64 = -1

// Entitled reports whether the plan grants pro limits. A pro row in any
// status other than active falls back to free limits.
func Entitled(tier entity.Tier, status entity.SubscriptionStatus) bool {
	return tier == entity.TierPro && status == entity.SubscriptionStatusActive
}

// Limit is the free tier threshold for kind, 0 for an unknown kind.
func Limit(kind ResourceKind) int64 {
	switch kind {
	case ResourceNote:
		return FreeNoteLimit
	case ResourceFolder:
		return FreeFolderLimit
	}
	return 0
}

// EffectiveLimit is Limit for a non-entitled plan and Unlimited otherwise.
func EffectiveLimit(tier entity.Tier, status entity.SubscriptionStatus, kind ResourceKind) int64 {
	if Entitled(tier, status) {
		return Unlimited
	}
	return Limit(kind)
}

// Allow decides whether one more resource of kind may be created when the
// user currently has count of them.
func Allow(tier entity.Tier, status entity.SubscriptionStatus, kind ResourceKind, count int64) bool {
	if Entitled(tier, status) {
		return true
	}
	return count < Limit(kind)
}
