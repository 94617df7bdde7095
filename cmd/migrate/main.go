package main

import (
	"log"

	"notekeeper-be/internal/config"
	"notekeeper-be/internal/model"
	"notekeeper-be/pkg/database"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDB(database.GormConfig{
		Driver:   cfg.Database.Driver,
		DSN:      cfg.Database.Connection,
		LogLevel: cfg.Database.LogLevel,
	})
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	if cfg.Database.Driver != "sqlite" {
		// gen_random_uuid() for ad-hoc inserts; the service assigns ids itself.
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
			log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
		}
	}

	log.Printf("Running AutoMigrate for %d tables...", len(model.All()))
	if err := model.AutoMigrate(db); err != nil {
		log.Fatal("Error: Migration failed:", err)
	}
	log.Println("Migration completed")
}
