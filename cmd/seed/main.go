package main

import (
	"log"

	"notekeeper-be/internal/config"
	"notekeeper-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.IsProduction() {
		log.Fatal("Error: refusing to seed demo accounts in production")
	}

	db, err := database.NewGormDB(database.GormConfig{
		Driver:   cfg.Database.Driver,
		DSN:      cfg.Database.Connection,
		LogLevel: cfg.Database.LogLevel,
	})
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding demo accounts...")
	for _, account := range demoAccounts() {
		if err := SeedAccount(db, account); err != nil {
			log.Fatalf("Error seeding %s: %v", account.Email, err)
		}
		log.Printf("Seeded %s (%s/%s, %d notes, %d folders)", account.Email, account.Tier, account.Status, account.Notes, account.Folders)
	}
	log.Println("Demo seeding completed!")
}
