package main

import (
	"fmt"
	"time"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/model"
	"notekeeper-be/pkg/entitlement"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DemoAccount describes a user seeded for local testing of plan limits.
type DemoAccount struct {
	Id       uuid.UUID
	Email    string
	FullName string
	Tier     entity.Tier
	Status   entity.SubscriptionStatus
	Notes    int
	Folders  int
}

func demoAccounts() []DemoAccount {
	return []DemoAccount{
		{
			Id:       uuid.MustParse("00000000-0000-4000-8000-000000000001"),
			Email:    "free@notekeeper.local",
			FullName: "Free Demo",
			Tier:     entity.TierFree,
			Status:   entity.SubscriptionStatusActive,
			Notes:    int(entitlement.FreeNoteLimit) - 1,
			Folders:  int(entitlement.FreeFolderLimit) - 1,
		},
		{
			Id:       uuid.MustParse("00000000-0000-4000-8000-000000000002"),
			Email:    "full@notekeeper.local",
			FullName: "Full Demo",
			Tier:     entity.TierFree,
			Status:   entity.SubscriptionStatusActive,
			Notes:    int(entitlement.FreeNoteLimit),
			Folders:  int(entitlement.FreeFolderLimit),
		},
		{
			Id:       uuid.MustParse("00000000-0000-4000-8000-000000000003"),
			Email:    "pro@notekeeper.local",
			FullName: "Pro Demo",
			Tier:     entity.TierPro,
			Status:   entity.SubscriptionStatusActive,
			Notes:    int(entitlement.FreeNoteLimit) * 2,
			Folders:  int(entitlement.FreeFolderLimit) * 2,
		},
		{
			Id:       uuid.MustParse("00000000-0000-4000-8000-000000000004"),
			Email:    "lapsed@notekeeper.local",
			FullName: "Lapsed Demo",
			Tier:     entity.TierPro,
			Status:   entity.SubscriptionStatusCanceled,
			Notes:    int(entitlement.FreeNoteLimit) + 5,
			Folders:  int(entitlement.FreeFolderLimit),
		},
	}
}

// SeedAccount replaces the demo account's content so reruns converge on the
// same state.
func SeedAccount(db *gorm.DB, account DemoAccount) error {
	return db.Transaction(func(tx *gorm.DB) error {
		user := model.User{Id: account.Id, Email: account.Email, FullName: account.FullName}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", account.Id).Delete(&model.Note{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", account.Id).Delete(&model.Folder{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", account.Id).Delete(&model.Subscription{}).Error; err != nil {
			return err
		}

		var periodEnd *time.Time
		if account.Tier == entity.TierPro {
			end := time.Now().UTC().AddDate(0, 1, 0)
			periodEnd = &end
		}
		sub := model.Subscription{
			Id:        uuid.New(),
			UserId:    account.Id,
			Plan:      string(account.Tier),
			Status:    string(account.Status),
			PeriodEnd: periodEnd,
			UpdatedAt: entity.NoEventApplied,
		}
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}

		folders := make([]model.Folder, 0, account.Folders)
		for i := 0; i < account.Folders; i++ {
			folders = append(folders, model.Folder{
				Id:     uuid.New(),
				UserId: account.Id,
				Name:   fmt.Sprintf("Folder %d", i+1),
			})
		}
		if len(folders) > 0 {
			if err := tx.Create(&folders).Error; err != nil {
				return err
			}
		}

		notes := make([]model.Note, 0, account.Notes)
		for i := 0; i < account.Notes; i++ {
			note := model.Note{
				Id:      uuid.New(),
				UserId:  account.Id,
				Title:   fmt.Sprintf("Note %d", i+1),
				Content: "Seeded for plan limit testing.",
			}
			if len(folders) > 0 {
				note.FolderId = &folders[i%len(folders)].Id
			}
			notes = append(notes, note)
		}
		if len(notes) > 0 {
			return tx.Create(&notes).Error
		}
		return nil
	})
}
