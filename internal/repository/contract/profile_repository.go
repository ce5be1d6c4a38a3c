package contract

import (
	"context"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ProfileRepository manages the per-user credit balance. Debit and Credit
// are single-statement updates so two concurrent callers can never both
// spend the same credits.
type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Profile, error)

	// Debit subtracts amount only when the balance covers it. Returns
	// false when the balance was insufficient and nothing was changed.
	Debit(ctx context.Context, userId uuid.UUID, amount int) (bool, error)
	// Credit adds amount unconditionally.
	Credit(ctx context.Context, userId uuid.UUID, amount int) error
	IncrementImagesGenerated(ctx context.Context, userId uuid.UUID, count int) error
}
