package gateway

import (
	"crypto/sha512"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTransactionId(t *testing.T) {
	id := NewTransactionId("khalti")
	assert.True(t, strings.HasPrefix(id, "khalti_"))
	assert.Len(t, id, len("khalti_")+16)

	other := NewTransactionId("khalti")
	assert.NotEqual(t, id, other)
}

func TestStripeParseWebhook(t *testing.T) {
	g := NewStripeGateway("", "http://localhost:3000")

	tests := []struct {
		name        string
		payload     map[string]any
		wantTxnId   string
		wantIgnored bool
	}{
		{
			name: "payment intent succeeded",
			payload: map[string]any{
				"type": "payment_intent.succeeded",
				"data": map[string]any{
					"object": map[string]any{
						"metadata": map[string]any{
							"transaction_id": "stripe_abc123def456ab12",
						},
					},
				},
			},
			wantTxnId: "stripe_abc123def456ab12",
		},
		{
			name:        "other event types are ignored",
			payload:     map[string]any{"type": "payment_intent.created"},
			wantIgnored: true,
		},
		{
			name: "succeeded without transaction reference is ignored",
			payload: map[string]any{
				"type": "payment_intent.succeeded",
				"data": map[string]any{"object": map[string]any{}},
			},
			wantIgnored: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.payload)
			event, err := g.ParseWebhook(body, nil)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantIgnored, event.Ignored)
			if !tt.wantIgnored {
				assert.Equal(t, tt.wantTxnId, event.TransactionId)
				assert.True(t, event.Succeeded)
			}
		})
	}
}

func TestRazorpayParseWebhook(t *testing.T) {
	g := NewRazorpayGateway("", "", "http://localhost:3000")

	body, _ := json.Marshal(map[string]any{
		"event": "payment.captured",
		"payload": map[string]any{
			"payment": map[string]any{
				"entity": map[string]any{
					"notes": map[string]any{
						"transaction_id": "razorpay_1234567890abcdef",
					},
				},
			},
		},
	})

	event, err := g.ParseWebhook(body, nil)
	assert.NoError(t, err)
	assert.False(t, event.Ignored)
	assert.True(t, event.Succeeded)
	assert.Equal(t, "razorpay_1234567890abcdef", event.TransactionId)

	failed, _ := json.Marshal(map[string]any{"event": "payment.failed"})
	event, err = g.ParseWebhook(failed, nil)
	assert.NoError(t, err)
	assert.True(t, event.Ignored)
}

func TestBinanceParseWebhook(t *testing.T) {
	g := NewBinanceGateway("", "http://localhost:3000")

	body, _ := json.Marshal(map[string]any{
		"status":         "SUCCESS",
		"transaction_id": "binance_abcdef1234567890",
	})
	event, err := g.ParseWebhook(body, nil)
	assert.NoError(t, err)
	assert.True(t, event.Succeeded)
	assert.Equal(t, "binance_abcdef1234567890", event.TransactionId)

	pending, _ := json.Marshal(map[string]any{
		"status":         "PENDING",
		"transaction_id": "binance_abcdef1234567890",
	})
	event, err = g.ParseWebhook(pending, nil)
	assert.NoError(t, err)
	assert.True(t, event.Ignored)
}

func TestKhaltiParseWebhook(t *testing.T) {
	g := NewKhaltiGateway("", "", "http://localhost:3000")

	body, _ := json.Marshal(map[string]any{
		"transaction_id": "khalti_0011223344556677",
		"status":         "completed",
	})
	event, err := g.ParseWebhook(body, nil)
	assert.NoError(t, err)
	assert.True(t, event.Succeeded)

	failed, _ := json.Marshal(map[string]any{
		"transaction_id": "khalti_0011223344556677",
		"status":         "failed",
	})
	event, err = g.ParseWebhook(failed, nil)
	assert.NoError(t, err)
	assert.False(t, event.Succeeded)
	assert.False(t, event.Ignored)

	_, err = g.ParseWebhook([]byte(`{}`), nil)
	assert.Error(t, err)
}

func TestMidtransParseWebhook(t *testing.T) {
	serverKey := "test-server-key"
	g := NewMidtransGateway(serverKey, "sandbox", "http://localhost:3000")

	signedBody := func(orderId, statusCode, grossAmount, txnStatus string) []byte {
		signature := fmt.Sprintf("%x", sha512.Sum512([]byte(orderId+statusCode+grossAmount+serverKey)))
		body, _ := json.Marshal(map[string]any{
			"order_id":           orderId,
			"status_code":        statusCode,
			"gross_amount":       grossAmount,
			"signature_key":      signature,
			"transaction_status": txnStatus,
		})
		return body
	}

	t.Run("settlement succeeds", func(t *testing.T) {
		event, err := g.ParseWebhook(signedBody("midtrans_aabbccdd11223344", "200", "10000.00", "settlement"), nil)
		assert.NoError(t, err)
		assert.True(t, event.Succeeded)
		assert.Equal(t, "midtrans_aabbccdd11223344", event.TransactionId)
	})

	t.Run("expire fails the transaction", func(t *testing.T) {
		event, err := g.ParseWebhook(signedBody("midtrans_aabbccdd11223344", "202", "10000.00", "expire"), nil)
		assert.NoError(t, err)
		assert.False(t, event.Succeeded)
		assert.False(t, event.Ignored)
	})

	t.Run("pending is ignored", func(t *testing.T) {
		event, err := g.ParseWebhook(signedBody("midtrans_aabbccdd11223344", "201", "10000.00", "pending"), nil)
		assert.NoError(t, err)
		assert.True(t, event.Ignored)
	})

	t.Run("bad signature is rejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{
			"order_id":           "midtrans_aabbccdd11223344",
			"status_code":        "200",
			"gross_amount":       "10000.00",
			"signature_key":      "forged",
			"transaction_status": "settlement",
		})
		_, err := g.ParseWebhook(body, nil)
		assert.Error(t, err)
	})
}
