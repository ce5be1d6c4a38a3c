package contract

import (
	"context"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ImageJobRepository interface {
	Create(ctx context.Context, job *entity.ImageJob) error
	Update(ctx context.Context, job *entity.ImageJob) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ImageJob, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ImageJob, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkCompleted(ctx context.Context, id uuid.UUID, outputImages []string) error
	MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
}
