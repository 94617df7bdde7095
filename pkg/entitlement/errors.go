package entitlement

import (
	"errors"
	"fmt"
)

var (
	// ErrResolutionFailed means the plan could not be read from storage.
	// Callers must not fall back to the free tier.
	ErrResolutionFailed = errors.New("plan resolution failed")
	ErrCountFailed      = errors.New("resource count failed")
	ErrUnknownResource  = errors.New("unknown resource kind")
)

// DeniedError carries a denial across layers that only speak error, so the
// HTTP layer can turn it into an upgrade prompt.
type DeniedError struct {
	Reason DenyReason
	Kind   ResourceKind
	Limit  int64
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("%s: limit of %d %ss reached", e.Reason, e.Limit, e.Kind)
}

func (e *DeniedError) Message() string {
	switch e.Reason {
	case NoteLimitReached:
		return fmt.Sprintf("You have reached the free plan limit of %d notes. Upgrade to Pro for unlimited notes.", e.Limit)
	case FolderLimitReached:
		return fmt.Sprintf("You have reached the free plan limit of %d folders. Upgrade to Pro for unlimited folders.", e.Limit)
	}
	return "Upgrade to Pro to continue."
}

// AsDenied unwraps err into a DeniedError when it is one.
func AsDenied(err error) (*DeniedError, bool) {
	var denied *DeniedError
	if errors.As(err, &denied) {
		return denied, true
	}
	return nil, false
}
