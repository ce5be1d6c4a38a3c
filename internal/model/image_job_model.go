package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ImageJob struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	ThreadId     *uuid.UUID     `gorm:"type:uuid;index"`
	Prompt       string         `gorm:"type:text;not null"`
	Provider     string         `gorm:"type:varchar(50);not null"`
	Status       string         `gorm:"type:varchar(20);not null;default:'pending';index"`
	InputImages  datatypes.JSON `gorm:"type:jsonb"`
	OutputImages datatypes.JSON `gorm:"type:jsonb"`
	ErrorMessage *string        `gorm:"type:text"`
	CreditsSpent int            `gorm:"not null;default:0"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	CompletedAt  *time.Time
}

func (ImageJob) TableName() string {
	return "image_jobs"
}
