package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PaymentTransaction struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId        uuid.UUID      `gorm:"type:uuid;not null;index"`
	TransactionId string         `gorm:"type:varchar(100);uniqueIndex;not null"`
	Gateway       string         `gorm:"type:varchar(50);not null;index"`
	Amount        float64        `gorm:"type:decimal(10,2);not null"`
	Credits       int            `gorm:"not null"`
	Status        string         `gorm:"type:varchar(20);not null;default:'pending';index"`
	GatewayData   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	CompletedAt   *time.Time
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}
