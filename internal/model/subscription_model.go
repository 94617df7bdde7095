package model

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	Id                     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId                 uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Plan                   string    `gorm:"type:varchar(20);not null;default:'free'"`
	Status                 string    `gorm:"type:varchar(20);not null;default:'active'"`
	PaymentCustomerRef     *string   `gorm:"type:varchar(255)"`
	PaymentSessionRef      *string   `gorm:"type:varchar(255)"`
	PaymentSubscriptionRef *string   `gorm:"type:varchar(255);index"`
	PeriodEnd              *time.Time
	CreatedAt              time.Time `gorm:"autoCreateTime"`
	// Set from the provider event timestamp; never touched by GORM.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
