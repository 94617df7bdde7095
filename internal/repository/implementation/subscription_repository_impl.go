package implementation

import (
	"context"
	"errors"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/mapper"
	"notekeeper-be/internal/model"
	"notekeeper-be/internal/repository/contract"
	"notekeeper-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SubscriptionMapper
}

func NewSubscriptionRepository(db *gorm.DB) contract.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSubscriptionMapper(),
	}
}

var subscriptionStateColumns = []string{
	"plan",
	"status",
	"payment_customer_ref",
	"payment_session_ref",
	"payment_subscription_ref",
	"period_end",
	"updated_at",
}

func (r *SubscriptionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	var m model.Subscription
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) CreateIfAbsent(ctx context.Context, subscription *entity.Subscription) (bool, error) {
	m := r.mapper.ToModel(subscription)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *SubscriptionRepositoryImpl) Upsert(ctx context.Context, subscription *entity.Subscription) (bool, error) {
	m := r.mapper.ToModel(subscription)
	// The candidate id is only kept when the row is new, so it must never
	// collide with the primary key of the row being replaced.
	m.Id = uuid.New()
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(subscriptionStateColumns),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "subscriptions.updated_at <= excluded.updated_at"},
			}},
		}).
		Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	var stored model.Subscription
	if err := r.db.WithContext(ctx).Where("user_id = ?", subscription.UserId).First(&stored).Error; err != nil {
		return true, err
	}
	*subscription = *r.mapper.ToEntity(&stored)
	return true, nil
}

func (r *SubscriptionRepositoryImpl) SetCustomerRef(ctx context.Context, userId uuid.UUID, ref string) error {
	return r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("user_id = ?", userId).
		UpdateColumn("payment_customer_ref", ref).Error
}

func (r *SubscriptionRepositoryImpl) DeleteByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.Subscription{}).Error
}
