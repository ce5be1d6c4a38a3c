package gateway

import (
	"context"
	"crypto/sha512"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// MidtransGateway drives the Snap checkout. Unlike the other gateways
// notifications are signed: SHA512(order_id + status_code + gross_amount
// + server_key).
type MidtransGateway struct {
	serverKey string
	env       midtrans.EnvironmentType
	clientURL string
}

func NewMidtransGateway(serverKey, environment, clientURL string) *MidtransGateway {
	env := midtrans.Sandbox
	if environment == "production" {
		env = midtrans.Production
	}
	return &MidtransGateway{
		serverKey: serverKey,
		env:       env,
		clientURL: clientURL,
	}
}

func (g *MidtransGateway) Name() string {
	return "midtrans"
}

func (g *MidtransGateway) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = g.clientURL + "/payment/success"
	}

	var sClient snap.Client
	sClient.New(g.serverKey, g.env)

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.TransactionId,
			GrossAmt: int64(req.Amount),
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: returnURL,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.UserName,
			Email: req.UserEmail,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.TransactionId,
				Price: int64(req.Amount),
				Qty:   1,
				Name:  fmt.Sprintf("%d credits", req.Credits),
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	return &InitiateResult{
		PaymentURL: snapResp.RedirectURL,
		GatewayData: map[string]any{
			"snap_token":        snapResp.Token,
			"snap_redirect_url": snapResp.RedirectURL,
			"gross_amount":      int64(req.Amount),
			"currency":          "IDR",
		},
	}, nil
}

func (g *MidtransGateway) Verify(ctx context.Context, transactionId string, payload map[string]any) (*VerifyResult, error) {
	status, _ := payload["transaction_status"].(string)
	return &VerifyResult{
		Succeeded:   status == "capture" || status == "settlement",
		GatewayData: payload,
	}, nil
}

type midtransNotification struct {
	OrderId           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
}

func (g *MidtransGateway) Refund(ctx context.Context, transactionId string, amount float64) (map[string]any, error) {
	return map[string]any{
		"refund_transaction_id": transactionId,
		"refund_amount":         int64(amount),
		"refund_status":         "initiated",
	}, nil
}

func (g *MidtransGateway) ParseWebhook(body []byte, headers map[string]string) (*WebhookEvent, error) {
	var notif midtransNotification
	if err := json.Unmarshal(body, &notif); err != nil {
		return nil, fmt.Errorf("invalid midtrans notification: %w", err)
	}
	if notif.OrderId == "" {
		return nil, fmt.Errorf("missing order_id")
	}

	signatureInput := notif.OrderId + notif.StatusCode + notif.GrossAmount + g.serverKey
	expected := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))
	if !strings.EqualFold(notif.SignatureKey, expected) {
		return nil, fmt.Errorf("invalid signature")
	}

	var raw map[string]any
	_ = json.Unmarshal(body, &raw)

	switch notif.TransactionStatus {
	case "capture", "settlement":
		return &WebhookEvent{TransactionId: notif.OrderId, Succeeded: true, Raw: raw}, nil
	case "deny", "cancel", "expire":
		return &WebhookEvent{TransactionId: notif.OrderId, Succeeded: false, Raw: raw}, nil
	default:
		// "pending" and anything unknown gets acknowledged but not acted on
		return &WebhookEvent{TransactionId: notif.OrderId, Ignored: true, Raw: raw}, nil
	}
}
