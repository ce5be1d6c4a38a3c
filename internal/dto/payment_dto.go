package dto

import (
	"time"

	"github.com/google/uuid"
)

type InitiatePaymentRequest struct {
	Gateway   string  `json:"gateway" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Credits   int     `json:"credits" validate:"required,gt=0"`
	ReturnURL string  `json:"return_url" validate:"omitempty,url"`
}

type InitiatePaymentResponse struct {
	TransactionId string         `json:"transaction_id"`
	Gateway       string         `json:"gateway"`
	Amount        float64        `json:"amount"`
	Credits       int            `json:"credits"`
	Status        string         `json:"status"`
	PaymentURL    string         `json:"payment_url,omitempty"`
	GatewayData   map[string]any `json:"gateway_data,omitempty"`
}

type VerifyPaymentRequest struct {
	TransactionId string         `json:"transaction_id" validate:"required"`
	GatewayData   map[string]any `json:"gateway_data"`
}

type VerifyPaymentResponse struct {
	TransactionId string `json:"transaction_id"`
	Status        string `json:"status"`
	CreditsAdded  int    `json:"credits_added"`
	TotalCredits  int    `json:"total_credits"`
}

type PaymentTransactionResponse struct {
	Id            uuid.UUID  `json:"id"`
	TransactionId string     `json:"transaction_id"`
	Gateway       string     `json:"gateway"`
	Amount        float64    `json:"amount"`
	Credits       int        `json:"credits"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}
