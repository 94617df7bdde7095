package model

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserId     uuid.UUID  `gorm:"type:uuid;not null;index:idx_notes_user_trashed,priority:1"`
	FolderId   *uuid.UUID `gorm:"type:uuid;index"`
	Title      string     `gorm:"type:varchar(255);not null"`
	Content    string     `gorm:"type:text"`
	IsFavorite bool       `gorm:"not null;default:false"`
	IsArchived bool       `gorm:"not null;default:false"`
	IsTrashed  bool       `gorm:"not null;default:false;index:idx_notes_user_trashed,priority:2"`
	TrashedAt  *time.Time
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Note) TableName() string {
	return "notes"
}
