package dto

import (
	"time"

	"github.com/google/uuid"
)

type GenerateImageRequest struct {
	Prompt      string     `json:"prompt" validate:"required,min=1"`
	Provider    string     `json:"provider" validate:"omitempty,oneof=openai gemini"`
	ThreadId    *uuid.UUID `json:"thread_id"`
	InputImages []string   `json:"input_images" validate:"omitempty,max=4"`
	NumImages   int        `json:"num_images" validate:"omitempty,min=1,max=4"`
}

type ImageJobResponse struct {
	Id           uuid.UUID  `json:"id"`
	ThreadId     *uuid.UUID `json:"thread_id,omitempty"`
	Prompt       string     `json:"prompt"`
	Provider     string     `json:"provider"`
	Status       string     `json:"status"`
	InputImages  []string   `json:"input_images,omitempty"`
	OutputImages []string   `json:"output_images,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreditsSpent int        `json:"credits_spent"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

type ImageJobListResponse struct {
	Jobs  []ImageJobResponse `json:"jobs"`
	Total int64              `json:"total"`
}
