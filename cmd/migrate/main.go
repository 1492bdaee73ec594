package main

import (
	"log"
	"os"

	"baknusai-be/internal/model"
	"baknusai-be/pkg/database"

	"github.com/joho/godotenv"
)

// Migrates the app store only. The PKL database belongs to the prakerin
// system and is never written, let alone migrated, from here.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("APP_DB_DSN")
	if dsn == "" {
		log.Fatal("Error: APP_DB_DSN is not set")
	}

	db, err := database.NewAppDB(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Running AutoMigrate for app store tables...")

	models := []interface{}{
		&model.User{},
		&model.ChatSession{},
		&model.ChatMessage{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Migration completed successfully.")
}
