package mapper

import (
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) ToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	return &entity.Subscription{
		Id:                     s.Id,
		UserId:                 s.UserId,
		Plan:                   entity.Tier(s.Plan),
		Status:                 entity.SubscriptionStatus(s.Status),
		PaymentCustomerRef:     s.PaymentCustomerRef,
		PaymentSessionRef:      s.PaymentSessionRef,
		PaymentSubscriptionRef: s.PaymentSubscriptionRef,
		PeriodEnd:              s.PeriodEnd,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) ToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	return &model.Subscription{
		Id:                     s.Id,
		UserId:                 s.UserId,
		Plan:                   string(s.Plan),
		Status:                 string(s.Status),
		PaymentCustomerRef:     s.PaymentCustomerRef,
		PaymentSessionRef:      s.PaymentSessionRef,
		PaymentSubscriptionRef: s.PaymentSubscriptionRef,
		PeriodEnd:              s.PeriodEnd,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}
