package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateThreadRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
}

type RenameThreadRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
}

type AppendMessageRequest struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type ThreadResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	ImageURLs []string  `json:"image_urls,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ThreadDetailResponse struct {
	Thread   ThreadResponse        `json:"thread"`
	Messages []ChatMessageResponse `json:"messages"`
}
