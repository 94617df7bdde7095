package entitlement

import (
	"context"
	"fmt"

	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ResourceCounter interface {
	Count(ctx context.Context, userID uuid.UUID, kind ResourceKind) (int64, error)
}

// StoreCounter counts live rows on every call. Trashed notes do not count;
// every folder does.
type StoreCounter struct {
	factory unitofwork.RepositoryFactory
	logger  logger.ILogger
}

func NewStoreCounter(factory unitofwork.RepositoryFactory, logger logger.ILogger) *StoreCounter {
	return &StoreCounter{factory: factory, logger: logger}
}

func (c *StoreCounter) Count(ctx context.Context, userID uuid.UUID, kind ResourceKind) (int64, error) {
	uow := c.factory.NewUnitOfWork(ctx)

	var (
		count int64
		err   error
	)
	switch kind {
	case ResourceNote:
		count, err = uow.NoteRepository().Count(ctx,
			specification.ByUserID{UserID: userID},
			specification.ActiveNotes{},
		)
	case ResourceFolder:
		count, err = uow.FolderRepository().Count(ctx, specification.ByUserID{UserID: userID})
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownResource, kind)
	}

	if err != nil {
		c.logger.Error("ENTITLEMENT", "Failed to count resources", map[string]interface{}{
			"user_id": userID.String(),
			"kind":    string(kind),
			"error":   err.Error(),
		})
		return 0, fmt.Errorf("%w: %v", ErrCountFailed, err)
	}
	return count, nil
}
