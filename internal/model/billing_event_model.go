package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type BillingEvent struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Provider   string         `gorm:"type:varchar(50);not null"`
	EventId    string         `gorm:"type:varchar(255);index"`
	EventType  string         `gorm:"type:varchar(100)"`
	UserId     *uuid.UUID     `gorm:"type:uuid;index"`
	Outcome    string         `gorm:"type:varchar(20);not null"`
	Detail     string         `gorm:"type:text"`
	Payload    datatypes.JSON `gorm:"type:jsonb"`
	ReceivedAt time.Time      `gorm:"not null;index"`
}

func (BillingEvent) TableName() string {
	return "billing_events"
}
