package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// PaymentTransaction records one purchase attempt. TransactionId is the
// merchant-side reference handed to the gateway; GatewayData accumulates
// whatever the gateway sends back across initiation, verification and
// webhook delivery.
type PaymentTransaction struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	TransactionId string
	Gateway       string
	Amount        float64
	Credits       int
	Status        PaymentStatus
	GatewayData   map[string]any
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}
