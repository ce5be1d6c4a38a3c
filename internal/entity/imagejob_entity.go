package entity

import (
	"time"

	"github.com/google/uuid"
)

type ImageJobStatus string

const (
	ImageJobStatusPending    ImageJobStatus = "pending"
	ImageJobStatusProcessing ImageJobStatus = "processing"
	ImageJobStatusCompleted  ImageJobStatus = "completed"
	ImageJobStatusFailed     ImageJobStatus = "failed"
)

type ImageJob struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	ThreadId     *uuid.UUID
	Prompt       string
	Provider     string
	Status       ImageJobStatus
	InputImages  []string
	OutputImages []string
	ErrorMessage *string
	CreditsSpent int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}
