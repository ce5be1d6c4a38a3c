package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessageRole string

const (
	ChatMessageRoleUser      ChatMessageRole = "user"
	ChatMessageRoleAssistant ChatMessageRole = "assistant"
)

type ChatThread struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ChatMessage struct {
	Id        uuid.UUID
	ThreadId  uuid.UUID
	Role      ChatMessageRole
	Content   string
	ImageURLs []string
	CreatedAt time.Time
}
