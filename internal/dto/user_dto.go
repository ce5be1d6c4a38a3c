package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	Id              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	FullName        string    `json:"full_name"`
	Role            string    `json:"role"`
	Status          string    `json:"status"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	Credits         int       `json:"credits"`
	ImagesGenerated int       `json:"images_generated"`
	CreatedAt       time.Time `json:"created_at"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,min=3"`
}

// AddCreditsRequest is the admin top-up payload.
type AddCreditsRequest struct {
	UserId  uuid.UUID `json:"user_id" validate:"required"`
	Credits int       `json:"credits" validate:"required,gt=0"`
}

type CreditBalanceResponse struct {
	UserId  uuid.UUID `json:"user_id"`
	Credits int       `json:"credits"`
}
