package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"ai-imagegen-be/internal/config"
	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/model"
	"ai-imagegen-be/internal/repository/unitofwork"

	"ai-imagegen-be/pkg/gateway"
	"ai-imagegen-be/pkg/imagegen"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	sqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

// --- test doubles ---

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type fakeMailer struct {
	mu          sync.Mutex
	resetTokens []string
	receipts    []string
}

func (m *fakeMailer) SendResetToken(toEmail, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetTokens = append(m.resetTokens, token)
	return nil
}

func (m *fakeMailer) SendPaymentReceipt(toEmail, transactionId string, credits int, amount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts = append(m.receipts, transactionId)
	return nil
}

func (m *fakeMailer) sentResetTokens() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.resetTokens...)
}

type fakeProvider struct {
	name    string
	images  []string
	err     error
	prompts []string
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Generate(ctx context.Context, req imagegen.GenerateRequest) (*imagegen.GenerateResult, error) {
	p.prompts = append(p.prompts, req.Prompt)
	if p.err != nil {
		return nil, p.err
	}
	return &imagegen.GenerateResult{Images: p.images}, nil
}

type fakeProviderFactory struct {
	provider *fakeProvider
}

func (f *fakeProviderFactory) Get(name string) (imagegen.Provider, error) {
	return f.provider, nil
}

func (f *fakeProviderFactory) Default() imagegen.Provider { return f.provider }

type fakeGateway struct {
	name         string
	verifyResult *gateway.VerifyResult
	webhookEvent *gateway.WebhookEvent
}

func (g *fakeGateway) Name() string { return g.name }

func (g *fakeGateway) Initiate(ctx context.Context, req gateway.InitiateRequest) (*gateway.InitiateResult, error) {
	return &gateway.InitiateResult{
		PaymentURL:  "https://pay.example.com/" + req.TransactionId,
		GatewayData: map[string]any{"amount": req.Amount},
	}, nil
}

func (g *fakeGateway) Verify(ctx context.Context, transactionId string, payload map[string]any) (*gateway.VerifyResult, error) {
	return g.verifyResult, nil
}

func (g *fakeGateway) Refund(ctx context.Context, transactionId string, amount float64) (map[string]any, error) {
	return map[string]any{"refund_transaction_id": transactionId, "refund_status": "initiated"}, nil
}

func (g *fakeGateway) ParseWebhook(body []byte, headers map[string]string) (*gateway.WebhookEvent, error) {
	return g.webhookEvent, nil
}

type fakeGatewayFactory struct {
	gw *fakeGateway
}

func (f *fakeGatewayFactory) Get(name string) (gateway.Gateway, error) { return f.gw, nil }
func (f *fakeGatewayFactory) Names() []string                         { return []string{f.gw.name} }

// --- fixtures ---

var testDBCounter int

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testDBCounter++
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", testDBCounter)

	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dsn,
	}, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the shared in-memory DB alive for the
	// whole test.
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.User{},
		&model.PasswordResetToken{},
		&model.UserProvider{},
		&model.UserRefreshToken{},
		&model.Profile{},
		&model.ChatThread{},
		&model.ChatMessage{},
		&model.ImageJob{},
		&model.PaymentTransaction{},
	)
	require.NoError(t, err)

	return db
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:           "test-secret",
		AccessTTLMinutes: 60,
		RefreshTTLDays:   30,
	}
}

func seedUser(t *testing.T, uowFactory unitofwork.RepositoryFactory, credits int) *entity.User {
	t.Helper()

	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	hash := "$2a$10$notarealhashnotarealhashnotarealhash"
	user := &entity.User{
		Id:           uuid.New(),
		Email:        fmt.Sprintf("user-%s@example.com", uuid.New().String()[:8]),
		FullName:     "Test User",
		PasswordHash: &hash,
		Role:         entity.UserRoleUser,
		Status:       entity.UserStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, uow.UserRepository().Create(ctx, user))

	profile := &entity.Profile{
		Id:        uuid.New(),
		UserId:    user.Id,
		Credits:   credits,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, uow.ProfileRepository().Create(ctx, profile))

	return user
}
