package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/repository/specification"
	"ai-imagegen-be/internal/repository/unitofwork"
	"ai-imagegen-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.PaymentRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Image Job Repository", func(t *testing.T) {
		count, err := uow.ImageJobRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("ImageJob count: %d", count)
	})

	t.Run("Check Transactional User Profile Creation", func(t *testing.T) {
		ctx := context.Background()

		userId := uuid.New()
		user := &entity.User{
			Id:       userId,
			Email:    "test-integration-" + uuid.New().String() + "@example.com",
			FullName: "Integration Test User",
			Role:     "user",
			Status:   "active",
		}

		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		err = uow.UserRepository().Create(ctx, user)
		assert.NoError(t, err)

		profile := &entity.Profile{
			Id:      uuid.New(),
			UserId:  userId,
			Credits: 3,
		}
		err = uow.ProfileRepository().Create(ctx, profile)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		loaded, err := uow.ProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId})
		assert.NoError(t, err)
		assert.NotNil(t, loaded)
		assert.Equal(t, 3, loaded.Credits)

		t.Log("Successfully created User with Profile in Transaction")
	})
}
