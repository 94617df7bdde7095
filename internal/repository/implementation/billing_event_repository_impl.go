package implementation

import (
	"context"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/mapper"
	"notekeeper-be/internal/model"
	"notekeeper-be/internal/repository/contract"
	"notekeeper-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BillingEventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BillingMapper
}

func NewBillingEventRepository(db *gorm.DB) contract.BillingEventRepository {
	return &BillingEventRepositoryImpl{
		db:     db,
		mapper: mapper.NewBillingMapper(),
	}
}

func (r *BillingEventRepositoryImpl) Create(ctx context.Context, event *entity.BillingEvent) error {
	if event.Id == uuid.Nil {
		event.Id = uuid.New()
	}
	return r.db.WithContext(ctx).Create(r.mapper.EventToModel(event)).Error
}

func (r *BillingEventRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.BillingEvent{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BillingEventRepositoryImpl) DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.BillingEvent{}).Error
}
