package gateway

import (
	"context"
	"encoding/json"
	"fmt"
)

// StripeGateway models the PaymentIntent flow. Our transaction reference
// travels in the intent metadata and comes back on the webhook.
type StripeGateway struct {
	secretKey string
	clientURL string
}

func NewStripeGateway(secretKey, clientURL string) *StripeGateway {
	return &StripeGateway{
		secretKey: secretKey,
		clientURL: clientURL,
	}
}

func (g *StripeGateway) Name() string {
	return "stripe"
}

func (g *StripeGateway) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = g.clientURL + "/payment/success"
	}

	return &InitiateResult{
		GatewayData: map[string]any{
			"amount":            int(req.Amount * 100), // cents
			"currency":          "usd",
			"payment_intent_id": fmt.Sprintf("pi_%s", req.TransactionId),
			"client_secret":     fmt.Sprintf("pi_%s_secret", req.TransactionId),
			"return_url":        returnURL,
		},
	}, nil
}

func (g *StripeGateway) Verify(ctx context.Context, transactionId string, payload map[string]any) (*VerifyResult, error) {
	if g.secretKey == "" {
		return &VerifyResult{
			Succeeded: true,
			GatewayData: map[string]any{
				"stripe_payment_intent_id": fmt.Sprintf("pi_%s", transactionId),
				"status":                   "succeeded",
			},
		}, nil
	}

	status, _ := payload["status"].(string)
	return &VerifyResult{
		Succeeded:   status == "succeeded",
		GatewayData: payload,
	}, nil
}

func (g *StripeGateway) Refund(ctx context.Context, transactionId string, amount float64) (map[string]any, error) {
	return map[string]any{
		"refund_transaction_id": transactionId,
		"refund_amount":         int(amount * 100), // cents
		"refund_status":         "initiated",
	}, nil
}

func (g *StripeGateway) ParseWebhook(body []byte, headers map[string]string) (*WebhookEvent, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("invalid stripe webhook payload: %w", err)
	}

	eventType, _ := payload["type"].(string)
	if eventType != "payment_intent.succeeded" {
		return &WebhookEvent{Ignored: true, Raw: payload}, nil
	}

	var transactionId string
	if data, ok := payload["data"].(map[string]any); ok {
		if object, ok := data["object"].(map[string]any); ok {
			if metadata, ok := object["metadata"].(map[string]any); ok {
				transactionId, _ = metadata["transaction_id"].(string)
			}
		}
	}

	if transactionId == "" {
		return &WebhookEvent{Ignored: true, Raw: payload}, nil
	}

	return &WebhookEvent{
		TransactionId: transactionId,
		Succeeded:     true,
		Raw:           payload,
	}, nil
}
