package db

import (
	"contracts-service/internal/domain"
	"log"
)

// Migrate runs database migrations
func Migrate() {
	err := AppDb.AutoMigrate(
		&domain.Contract{},
		&domain.ContractVersion{},
		&domain.ContractParty{},
		&domain.ActivityLog{},
	)

	if err != nil {
		log.Fatal(err)
	}

	log.Println("Database schema migrated successfully")
}
