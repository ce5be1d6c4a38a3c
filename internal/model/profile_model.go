package model

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Credits         int       `gorm:"not null;default:0"`
	ImagesGenerated int       `gorm:"not null;default:0"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}
