package unitofwork

import (
	"context"

	"ai-imagegen-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ProfileRepository() contract.ProfileRepository
	ChatThreadRepository() contract.ChatThreadRepository
	ChatMessageRepository() contract.ChatMessageRepository
	ImageJobRepository() contract.ImageJobRepository
	PaymentRepository() contract.PaymentRepository
}
