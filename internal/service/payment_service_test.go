package service

import (
	"context"
	"testing"
	"time"

	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/pkg/apperr"
	"ai-imagegen-be/internal/repository/specification"
	"ai-imagegen-be/internal/repository/unitofwork"

	"ai-imagegen-be/pkg/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaymentService(t *testing.T, gw *fakeGateway) (IPaymentService, unitofwork.RepositoryFactory, *fakeMailer) {
	t.Helper()

	db := setupTestDB(t)
	uowFactory := unitofwork.NewRepositoryFactory(db)
	mail := &fakeMailer{}
	svc := NewPaymentService(uowFactory, &fakeGatewayFactory{gw: gw}, mail, nil, noopLogger{})
	return svc, uowFactory, mail
}

func TestInitiateCreatesPendingTransaction(t *testing.T) {
	gw := &fakeGateway{name: "khalti"}
	svc, uowFactory, _ := newPaymentService(t, gw)
	ctx := context.Background()

	user := seedUser(t, uowFactory, 0)

	res, err := svc.Initiate(ctx, user.Id, &dto.InitiatePaymentRequest{
		Gateway: "khalti",
		Amount:  500,
		Credits: 50,
	})
	require.NoError(t, err)
	assert.Contains(t, res.TransactionId, "khalti_")
	assert.Equal(t, "pending", res.Status)
	assert.NotEmpty(t, res.PaymentURL)

	uow := uowFactory.NewUnitOfWork(ctx)
	txn, err := uow.PaymentRepository().FindOne(ctx, specification.ByTransactionID{TransactionID: res.TransactionId})
	require.NoError(t, err)
	require.NotNil(t, txn)
	assert.Equal(t, entity.PaymentStatusPending, txn.Status)
	assert.Equal(t, 50, txn.Credits)
}

func TestVerifyAddsCreditsOnce(t *testing.T) {
	gw := &fakeGateway{
		name:         "khalti",
		verifyResult: &gateway.VerifyResult{Succeeded: true, GatewayData: map[string]any{"idx": "abc"}},
	}
	svc, uowFactory, _ := newPaymentService(t, gw)
	ctx := context.Background()

	user := seedUser(t, uowFactory, 3)

	initiated, err := svc.Initiate(ctx, user.Id, &dto.InitiatePaymentRequest{
		Gateway: "khalti",
		Amount:  500,
		Credits: 50,
	})
	require.NoError(t, err)

	res, err := svc.Verify(ctx, user.Id, &dto.VerifyPaymentRequest{TransactionId: initiated.TransactionId})
	require.NoError(t, err)
	assert.Equal(t, "completed", res.Status)
	assert.Equal(t, 50, res.CreditsAdded)
	assert.Equal(t, 53, res.TotalCredits)

	// A second verify is rejected and adds nothing
	_, err = svc.Verify(ctx, user.Id, &dto.VerifyPaymentRequest{TransactionId: initiated.TransactionId})
	require.ErrorIs(t, err, apperr.ErrAlreadyProcessed)

	uow := uowFactory.NewUnitOfWork(ctx)
	profile, _ := uow.ProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: user.Id})
	assert.Equal(t, 53, profile.Credits)
}

func TestVerifyRejectsForeignTransaction(t *testing.T) {
	gw := &fakeGateway{
		name:         "khalti",
		verifyResult: &gateway.VerifyResult{Succeeded: true},
	}
	svc, uowFactory, _ := newPaymentService(t, gw)
	ctx := context.Background()

	owner := seedUser(t, uowFactory, 0)
	intruder := seedUser(t, uowFactory, 0)

	initiated, err := svc.Initiate(ctx, owner.Id, &dto.InitiatePaymentRequest{
		Gateway: "khalti",
		Amount:  500,
		Credits: 50,
	})
	require.NoError(t, err)

	_, err = svc.Verify(ctx, intruder.Id, &dto.VerifyPaymentRequest{TransactionId: initiated.TransactionId})
	assert.Error(t, err)
}

func TestWebhookSettlesOnce(t *testing.T) {
	gw := &fakeGateway{name: "stripe"}
	svc, uowFactory, mail := newPaymentService(t, gw)
	ctx := context.Background()

	user := seedUser(t, uowFactory, 0)

	initiated, err := svc.Initiate(ctx, user.Id, &dto.InitiatePaymentRequest{
		Gateway: "stripe",
		Amount:  9.99,
		Credits: 100,
	})
	require.NoError(t, err)

	gw.webhookEvent = &gateway.WebhookEvent{
		TransactionId: initiated.TransactionId,
		Succeeded:     true,
		Raw:           map[string]any{"type": "payment_intent.succeeded"},
	}

	// Gateways retry deliveries; every retry after the first is a no-op
	require.NoError(t, svc.HandleWebhook(ctx, "stripe", []byte(`{}`), nil))
	require.NoError(t, svc.HandleWebhook(ctx, "stripe", []byte(`{}`), nil))
	require.NoError(t, svc.HandleWebhook(ctx, "stripe", []byte(`{}`), nil))

	uow := uowFactory.NewUnitOfWork(ctx)
	profile, _ := uow.ProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: user.Id})
	assert.Equal(t, 100, profile.Credits)

	txn, _ := uow.PaymentRepository().FindOne(ctx, specification.ByTransactionID{TransactionID: initiated.TransactionId})
	assert.Equal(t, entity.PaymentStatusCompleted, txn.Status)
	require.NotNil(t, txn.CompletedAt)

	// Receipt goes out for the settlement, not the replays
	assert.Eventually(t, func() bool {
		mail.mu.Lock()
		defer mail.mu.Unlock()
		return len(mail.receipts) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestWebhookFailureDoesNotAddCredits(t *testing.T) {
	gw := &fakeGateway{name: "midtrans"}
	svc, uowFactory, _ := newPaymentService(t, gw)
	ctx := context.Background()

	user := seedUser(t, uowFactory, 0)

	initiated, err := svc.Initiate(ctx, user.Id, &dto.InitiatePaymentRequest{
		Gateway: "midtrans",
		Amount:  10000,
		Credits: 100,
	})
	require.NoError(t, err)

	gw.webhookEvent = &gateway.WebhookEvent{
		TransactionId: initiated.TransactionId,
		Succeeded:     false,
		Raw:           map[string]any{"transaction_status": "expire"},
	}

	require.NoError(t, svc.HandleWebhook(ctx, "midtrans", []byte(`{}`), nil))

	uow := uowFactory.NewUnitOfWork(ctx)
	profile, _ := uow.ProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: user.Id})
	assert.Equal(t, 0, profile.Credits)

	txn, _ := uow.PaymentRepository().FindOne(ctx, specification.ByTransactionID{TransactionID: initiated.TransactionId})
	assert.Equal(t, entity.PaymentStatusFailed, txn.Status)
}

func TestWebhookIgnoredEventIsAcknowledged(t *testing.T) {
	gw := &fakeGateway{
		name:         "stripe",
		webhookEvent: &gateway.WebhookEvent{Ignored: true},
	}
	svc, _, _ := newPaymentService(t, gw)

	assert.NoError(t, svc.HandleWebhook(context.Background(), "stripe", []byte(`{}`), nil))
}

func TestWebhookMergesGatewayData(t *testing.T) {
	gw := &fakeGateway{name: "khalti"}
	svc, uowFactory, _ := newPaymentService(t, gw)
	ctx := context.Background()

	user := seedUser(t, uowFactory, 0)

	initiated, err := svc.Initiate(ctx, user.Id, &dto.InitiatePaymentRequest{
		Gateway: "khalti",
		Amount:  500,
		Credits: 50,
	})
	require.NoError(t, err)

	gw.webhookEvent = &gateway.WebhookEvent{
		TransactionId: initiated.TransactionId,
		Succeeded:     true,
		Raw:           map[string]any{"idx": "khalti-ref-1"},
	}
	require.NoError(t, svc.HandleWebhook(ctx, "khalti", []byte(`{}`), nil))

	uow := uowFactory.NewUnitOfWork(ctx)
	txn, _ := uow.PaymentRepository().FindOne(ctx, specification.ByTransactionID{TransactionID: initiated.TransactionId})

	// Initiation data survives the webhook merge
	assert.Equal(t, "khalti-ref-1", txn.GatewayData["idx"])
	assert.NotNil(t, txn.GatewayData["amount"])
}

func TestRefundTakesCreditsBackOnce(t *testing.T) {
	gw := &fakeGateway{
		name:         "khalti",
		verifyResult: &gateway.VerifyResult{Succeeded: true, GatewayData: map[string]any{}},
	}
	svc, uowFactory, _ := newPaymentService(t, gw)
	ctx := context.Background()

	user := seedUser(t, uowFactory, 0)

	initiated, err := svc.Initiate(ctx, user.Id, &dto.InitiatePaymentRequest{
		Gateway: "khalti",
		Amount:  500,
		Credits: 50,
	})
	require.NoError(t, err)

	_, err = svc.Verify(ctx, user.Id, &dto.VerifyPaymentRequest{TransactionId: initiated.TransactionId})
	require.NoError(t, err)

	res, err := svc.Refund(ctx, initiated.TransactionId)
	require.NoError(t, err)
	assert.Equal(t, "refunded", res.Status)

	uow := uowFactory.NewUnitOfWork(ctx)
	profile, _ := uow.ProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: user.Id})
	assert.Equal(t, 0, profile.Credits)

	txn, _ := uow.PaymentRepository().FindOne(ctx, specification.ByTransactionID{TransactionID: initiated.TransactionId})
	assert.Equal(t, entity.PaymentStatusRefunded, txn.Status)
	assert.Equal(t, "initiated", txn.GatewayData["refund_status"])

	// Refunding again is rejected and the balance stays put
	_, err = svc.Refund(ctx, initiated.TransactionId)
	assert.Error(t, err)
	profile, _ = uow.ProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: user.Id})
	assert.Equal(t, 0, profile.Credits)
}

func TestRefundRefusedWhenCreditsSpent(t *testing.T) {
	gw := &fakeGateway{
		name:         "khalti",
		verifyResult: &gateway.VerifyResult{Succeeded: true, GatewayData: map[string]any{}},
	}
	svc, uowFactory, _ := newPaymentService(t, gw)
	ctx := context.Background()

	user := seedUser(t, uowFactory, 0)

	initiated, err := svc.Initiate(ctx, user.Id, &dto.InitiatePaymentRequest{
		Gateway: "khalti",
		Amount:  500,
		Credits: 50,
	})
	require.NoError(t, err)

	_, err = svc.Verify(ctx, user.Id, &dto.VerifyPaymentRequest{TransactionId: initiated.TransactionId})
	require.NoError(t, err)

	// User spends most of the purchased credits
	uow := uowFactory.NewUnitOfWork(ctx)
	debited, err := uow.ProfileRepository().Debit(ctx, user.Id, 40)
	require.NoError(t, err)
	require.True(t, debited)

	_, err = svc.Refund(ctx, initiated.TransactionId)
	assert.Error(t, err)

	txn, _ := uow.PaymentRepository().FindOne(ctx, specification.ByTransactionID{TransactionID: initiated.TransactionId})
	assert.Equal(t, entity.PaymentStatusCompleted, txn.Status)
	profile, _ := uow.ProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: user.Id})
	assert.Equal(t, 10, profile.Credits)
}
