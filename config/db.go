package config

import (
	"errors"
	"log"
	"os"

	"github.com/bellapacxx/bingo-hall/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// SetupDatabase connects to the database, runs migrations and seeds the
// distribution policy when none exists.
func SetupDatabase() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("[FATAL] DATABASE_URL is required in .env")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect to DB: %v", err)
	}
	DB = db

	if err := Migrate(db); err != nil {
		log.Fatalf("[FATAL] Migration failed: %v", err)
	}

	log.Println("✅ Database migration completed")
	return db
}

// Migrate creates the schema and the default percentage settings row.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.Player{},
		&models.Transaction{},
		&models.PercentageSettings{},
		&models.Raffle{},
		&models.Ticket{},
		&models.CreditRequest{},
		&models.WithdrawalRequest{},
	); err != nil {
		return err
	}

	var policy models.PercentageSettings
	if err := db.First(&policy).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return db.Create(models.DefaultPercentageSettings()).Error
	}
	return nil
}
