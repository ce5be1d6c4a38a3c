package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type InitiateRequest struct {
	TransactionId string
	Amount        float64
	Credits       int
	UserName      string
	UserEmail     string
	ReturnURL     string
}

type InitiateResult struct {
	PaymentURL  string
	GatewayData map[string]any
}

type VerifyResult struct {
	Succeeded   bool
	GatewayData map[string]any
}

// WebhookEvent is the normalized form of a gateway callback. Ignored
// marks event types the gateway sends but we do not act on.
type WebhookEvent struct {
	TransactionId string
	Succeeded     bool
	Ignored       bool
	Raw           map[string]any
}

type Gateway interface {
	Name() string
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
	Verify(ctx context.Context, transactionId string, payload map[string]any) (*VerifyResult, error)
	Refund(ctx context.Context, transactionId string, amount float64) (map[string]any, error)
	ParseWebhook(body []byte, headers map[string]string) (*WebhookEvent, error)
}

// NewTransactionId builds the merchant-side reference, e.g.
// "khalti_1f2e3d4c5b6a7980".
func NewTransactionId(gatewayName string) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("%s_%s", gatewayName, hex[:16])
}
