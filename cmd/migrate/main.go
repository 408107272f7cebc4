package main

import (
	"log"
	"os"

	"github.com/bellapacxx/bingo-hall/config"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Runs the schema migration and exits. Useful for deploy hooks.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, reading environment variables")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("[FATAL] DATABASE_URL is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect to DB: %v", err)
	}

	if err := config.Migrate(db); err != nil {
		log.Fatalf("[FATAL] Migration failed: %v", err)
	}
	log.Println("✅ Database migration completed")
}
