package entity

import (
	"time"

	"github.com/google/uuid"
)

// Profile carries the per-user credit balance and usage counters. The
// balance is only ever changed through the atomic repository operations,
// never by loading and re-saving the struct.
type Profile struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	Credits         int
	ImagesGenerated int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
