package implementation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/model"
	"ai-imagegen-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

var repoTestDBCounter int

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	repoTestDBCounter++
	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", repoTestDBCounter)

	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dsn,
	}, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.PaymentTransaction{},
	))

	return db
}

func TestProfileDebitIsConditional(t *testing.T) {
	db := openTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	userId := uuid.New()
	require.NoError(t, repo.Create(ctx, &entity.Profile{
		Id:      uuid.New(),
		UserId:  userId,
		Credits: 2,
	}))

	ok, err := repo.Debit(ctx, userId, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	// Balance is 1 now; a 2-credit debit must not go through
	ok, err = repo.Debit(ctx, userId, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	profile, err := repo.FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	require.NoError(t, err)
	assert.Equal(t, 1, profile.Credits)

	// Debiting an unknown user touches no rows
	ok, err = repo.Debit(ctx, uuid.New(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfileCreditAndIncrement(t *testing.T) {
	db := openTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	userId := uuid.New()
	require.NoError(t, repo.Create(ctx, &entity.Profile{
		Id:      uuid.New(),
		UserId:  userId,
		Credits: 0,
	}))

	require.NoError(t, repo.Credit(ctx, userId, 10))
	require.NoError(t, repo.IncrementImagesGenerated(ctx, userId, 2))

	profile, err := repo.FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	require.NoError(t, err)
	assert.Equal(t, 10, profile.Credits)
	assert.Equal(t, 2, profile.ImagesGenerated)
}

func TestSettleIfPendingIsCompareAndSwap(t *testing.T) {
	db := openTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	txn := &entity.PaymentTransaction{
		Id:            uuid.New(),
		UserId:        uuid.New(),
		TransactionId: "stripe_0123456789abcdef",
		Gateway:       "stripe",
		Amount:        9.99,
		Credits:       100,
		Status:        entity.PaymentStatusPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	require.NoError(t, repo.Create(ctx, txn))

	settled, err := repo.SettleIfPending(ctx, txn.TransactionId, entity.PaymentStatusCompleted)
	require.NoError(t, err)
	assert.True(t, settled)

	// Second settlement attempt loses the race
	settled, err = repo.SettleIfPending(ctx, txn.TransactionId, entity.PaymentStatusCompleted)
	require.NoError(t, err)
	assert.False(t, settled)

	// Even flipping to a different terminal status is refused
	settled, err = repo.SettleIfPending(ctx, txn.TransactionId, entity.PaymentStatusFailed)
	require.NoError(t, err)
	assert.False(t, settled)

	loaded, err := repo.FindOne(ctx, specification.ByTransactionID{TransactionID: txn.TransactionId})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusCompleted, loaded.Status)
	assert.NotNil(t, loaded.CompletedAt)
}

func TestMarkRefundedOnlyFlipsCompleted(t *testing.T) {
	db := openTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	txn := &entity.PaymentTransaction{
		Id:            uuid.New(),
		UserId:        uuid.New(),
		TransactionId: "stripe_fedcba9876543210",
		Gateway:       "stripe",
		Amount:        9.99,
		Credits:       100,
		Status:        entity.PaymentStatusPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	require.NoError(t, repo.Create(ctx, txn))

	// Pending transactions cannot be refunded
	refunded, err := repo.MarkRefunded(ctx, txn.TransactionId)
	require.NoError(t, err)
	assert.False(t, refunded)

	_, err = repo.SettleIfPending(ctx, txn.TransactionId, entity.PaymentStatusCompleted)
	require.NoError(t, err)

	refunded, err = repo.MarkRefunded(ctx, txn.TransactionId)
	require.NoError(t, err)
	assert.True(t, refunded)

	// Replays lose
	refunded, err = repo.MarkRefunded(ctx, txn.TransactionId)
	require.NoError(t, err)
	assert.False(t, refunded)
}

func TestMergeGatewayDataPreservesExistingKeys(t *testing.T) {
	db := openTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	txn := &entity.PaymentTransaction{
		Id:            uuid.New(),
		UserId:        uuid.New(),
		TransactionId: "khalti_fedcba9876543210",
		Gateway:       "khalti",
		Amount:        500,
		Credits:       50,
		Status:        entity.PaymentStatusPending,
		GatewayData:   map[string]any{"pidx": "init-ref", "amount": float64(50000)},
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	require.NoError(t, repo.Create(ctx, txn))

	require.NoError(t, repo.MergeGatewayData(ctx, txn.TransactionId, map[string]any{
		"status": "completed",
		"amount": float64(50000),
	}))

	loaded, err := repo.FindOne(ctx, specification.ByTransactionID{TransactionID: txn.TransactionId})
	require.NoError(t, err)
	assert.Equal(t, "init-ref", loaded.GatewayData["pidx"])
	assert.Equal(t, "completed", loaded.GatewayData["status"])
}
