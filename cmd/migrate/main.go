package main

import (
	"log"
	"os"

	"ai-imagegen-be/internal/model"
	"ai-imagegen-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM migration...")

	// Extensions AutoMigrate can't create itself
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	models := []interface{}{
		&model.User{},
		&model.PasswordResetToken{},
		&model.UserProvider{},
		&model.UserRefreshToken{},
		&model.Profile{},
		&model.ChatThread{},
		&model.ChatMessage{},
		&model.ImageJob{},
		&model.PaymentTransaction{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatal("Error: AutoMigrate failed:", err)
	}

	// Server-side uuid defaults are Postgres DDL, so they are installed
	// here rather than in the model tags.
	defaultSQL := []string{
		`ALTER TABLE users ALTER COLUMN id SET DEFAULT gen_random_uuid();`,
		`ALTER TABLE password_reset_tokens ALTER COLUMN id SET DEFAULT gen_random_uuid();`,
		`ALTER TABLE user_providers ALTER COLUMN id SET DEFAULT gen_random_uuid();`,
		`ALTER TABLE user_refresh_tokens ALTER COLUMN id SET DEFAULT gen_random_uuid();`,
		`ALTER TABLE profiles ALTER COLUMN id SET DEFAULT gen_random_uuid();`,
		`ALTER TABLE chat_threads ALTER COLUMN id SET DEFAULT gen_random_uuid();`,
		`ALTER TABLE chat_messages ALTER COLUMN id SET DEFAULT gen_random_uuid();`,
		`ALTER TABLE image_jobs ALTER COLUMN id SET DEFAULT gen_random_uuid();`,
		`ALTER TABLE payment_transactions ALTER COLUMN id SET DEFAULT gen_random_uuid();`,
	}

	for _, sql := range defaultSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to set uuid default: %v. Continuing...", err)
		}
	}

	log.Printf("Migration complete: %d tables up to date", len(models))
}
