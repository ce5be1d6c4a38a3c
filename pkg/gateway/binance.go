package gateway

import (
	"context"
	"encoding/json"
	"fmt"
)

// BinanceGateway models Binance Pay settlement in USDT.
type BinanceGateway struct {
	apiKey    string
	clientURL string
}

func NewBinanceGateway(apiKey, clientURL string) *BinanceGateway {
	return &BinanceGateway{
		apiKey:    apiKey,
		clientURL: clientURL,
	}
}

func (g *BinanceGateway) Name() string {
	return "binance"
}

func (g *BinanceGateway) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = g.clientURL + "/payment/success"
	}

	return &InitiateResult{
		GatewayData: map[string]any{
			"amount":      req.Amount,
			"currency":    "USDT",
			"order_id":    req.TransactionId,
			"description": fmt.Sprintf("Purchase %d credits", req.Credits),
			"return_url":  returnURL,
		},
	}, nil
}

func (g *BinanceGateway) Verify(ctx context.Context, transactionId string, payload map[string]any) (*VerifyResult, error) {
	if g.apiKey == "" {
		return &VerifyResult{
			Succeeded: true,
			GatewayData: map[string]any{
				"binance_transaction_id": fmt.Sprintf("binance_%s", transactionId),
				"status":                 "completed",
			},
		}, nil
	}

	status, _ := payload["status"].(string)
	return &VerifyResult{
		Succeeded:   status == "SUCCESS",
		GatewayData: payload,
	}, nil
}

func (g *BinanceGateway) Refund(ctx context.Context, transactionId string, amount float64) (map[string]any, error) {
	return map[string]any{
		"refund_transaction_id": transactionId,
		"refund_amount":         amount,
		"refund_status":         "initiated",
	}, nil
}

func (g *BinanceGateway) ParseWebhook(body []byte, headers map[string]string) (*WebhookEvent, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("invalid binance webhook payload: %w", err)
	}

	status, _ := payload["status"].(string)
	transactionId, _ := payload["transaction_id"].(string)

	if status != "SUCCESS" || transactionId == "" {
		return &WebhookEvent{Ignored: true, Raw: payload}, nil
	}

	return &WebhookEvent{
		TransactionId: transactionId,
		Succeeded:     true,
		Raw:           payload,
	}, nil
}
