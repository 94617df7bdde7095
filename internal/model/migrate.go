package model

import "gorm.io/gorm"

// All lists every table owned by the service, parents first.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Folder{},
		&Note{},
		&Subscription{},
		&BillingEvent{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
