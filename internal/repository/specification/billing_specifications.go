package specification

import "gorm.io/gorm"

type ByPaymentSubscriptionRef struct {
	Ref string
}

func (s ByPaymentSubscriptionRef) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("payment_subscription_ref = ?", s.Ref)
}

type ByPaymentCustomerRef struct {
	Ref string
}

func (s ByPaymentCustomerRef) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("payment_customer_ref = ?", s.Ref)
}

type ByProviderEvent struct {
	Provider string
	EventID  string
}

func (s ByProviderEvent) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("provider = ? AND event_id = ?", s.Provider, s.EventID)
}

type ByOutcomes struct {
	Outcomes []string
}

func (s ByOutcomes) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("outcome IN ?", s.Outcomes)
}
