package service

import (
	"context"
	"time"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/pkg/events"

	"github.com/google/uuid"
)

type Identity struct {
	UserId   uuid.UUID
	Email    string
	FullName string
}

type IAccountService interface {
	Provision(ctx context.Context, identity Identity) (*dto.ProvisionResponse, error)
	Delete(ctx context.Context, userId uuid.UUID) error
}

type accountService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewAccountService(uowFactory unitofwork.RepositoryFactory, publisher events.Publisher, logger logger.ILogger) IAccountService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &accountService{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

// Provision is safe to call on every sign-in. Concurrent first logins
// collapse onto one user row and one subscription row.
func (s *accountService) Provision(ctx context.Context, identity Identity) (*dto.ProvisionResponse, error) {
	now := time.Now().UTC()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	created, err := uow.UserRepository().CreateIfAbsent(ctx, &entity.User{
		Id:        identity.UserId,
		Email:     identity.Email,
		FullName:  identity.FullName,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if _, err := uow.SubscriptionRepository().CreateIfAbsent(ctx, entity.DefaultSubscription(identity.UserId, now)); err != nil {
		return nil, err
	}

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByUserID{UserID: identity.UserId})
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if created {
		s.logger.Info("ACCOUNT", "Account provisioned", map[string]interface{}{
			"user_id": identity.UserId.String(),
		})
		s.publish(ctx, events.AccountProvisioned, identity.UserId, map[string]interface{}{
			"email":     identity.Email,
			"full_name": identity.FullName,
		})
	}

	res := &dto.ProvisionResponse{
		UserId:  identity.UserId,
		Created: created,
		Tier:    string(entity.TierFree),
		Status:  string(entity.SubscriptionStatusActive),
	}
	if sub != nil {
		res.Tier = string(sub.Plan)
		res.Status = string(sub.Status)
	}
	return res, nil
}

// Delete removes everything the user owns in one transaction.
func (s *accountService) Delete(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.NoteRepository().DeleteAllByUserId(ctx, userId); err != nil {
		return err
	}
	if err := uow.FolderRepository().DeleteAllByUserId(ctx, userId); err != nil {
		return err
	}
	if err := uow.BillingEventRepository().DeleteAllByUserId(ctx, userId); err != nil {
		return err
	}
	if err := uow.SubscriptionRepository().DeleteByUserId(ctx, userId); err != nil {
		return err
	}
	if err := uow.UserRepository().Delete(ctx, userId); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Info("ACCOUNT", "Account deleted", map[string]interface{}{
		"user_id": userId.String(),
	})
	s.publish(ctx, events.AccountDeleted, userId, nil)
	return nil
}

func (s *accountService) publish(ctx context.Context, eventType string, userId uuid.UUID, data map[string]interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["user_id"] = userId.String()

	err := s.publisher.Publish(ctx, events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("ACCOUNT", "Failed to publish account event", map[string]interface{}{
			"event_type": eventType,
			"error":      err.Error(),
		})
	}
}
