package main

import (
	"context"
	"log"
	"os"
	"time"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/repository/specification"
	"ai-imagegen-be/internal/repository/unitofwork"
	"ai-imagegen-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the initial admin account. Safe to run repeatedly.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("Error: ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: adminEmail})
	if err != nil {
		log.Fatal("Error: Failed to query users:", err)
	}
	if existing != nil {
		log.Printf("Admin %s already exists, nothing to do", adminEmail)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Error: Failed to hash password:", err)
	}
	hashStr := string(hash)

	if err := uow.Begin(ctx); err != nil {
		log.Fatal("Error: Failed to begin transaction:", err)
	}
	defer uow.Rollback()

	admin := &entity.User{
		Id:           uuid.New(),
		Email:        adminEmail,
		FullName:     "Administrator",
		PasswordHash: &hashStr,
		Role:         entity.UserRoleAdmin,
		Status:       entity.UserStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := uow.UserRepository().Create(ctx, admin); err != nil {
		log.Fatal("Error: Failed to create admin:", err)
	}

	profile := &entity.Profile{
		Id:        uuid.New(),
		UserId:    admin.Id,
		Credits:   0,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := uow.ProfileRepository().Create(ctx, profile); err != nil {
		log.Fatal("Error: Failed to create admin profile:", err)
	}

	if err := uow.Commit(); err != nil {
		log.Fatal("Error: Failed to commit:", err)
	}

	log.Printf("Admin %s created", adminEmail)
}
