package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// DB is the shared database handle, set by SetupDatabase.
var DB *gorm.DB

// LoadEnv loads .env and validates required vars.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, reading environment variables")
	}

	if os.Getenv("DATABASE_URL") == "" {
		log.Fatal("[FATAL] DATABASE_URL is required in .env or environment")
	}
}

// Port returns the HTTP listen port.
func Port() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	return port
}
