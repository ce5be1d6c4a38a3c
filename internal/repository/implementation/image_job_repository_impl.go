package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/mapper"
	"ai-imagegen-be/internal/model"
	"ai-imagegen-be/internal/repository/contract"
	"ai-imagegen-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ImageJobRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ImageJobMapper
}

func NewImageJobRepository(db *gorm.DB) contract.ImageJobRepository {
	return &ImageJobRepositoryImpl{
		db:     db,
		mapper: mapper.NewImageJobMapper(),
	}
}

func (r *ImageJobRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ImageJobRepositoryImpl) Create(ctx context.Context, job *entity.ImageJob) error {
	m := r.mapper.ToModel(job)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.ToEntity(m)
	return nil
}

func (r *ImageJobRepositoryImpl) Update(ctx context.Context, job *entity.ImageJob) error {
	m := r.mapper.ToModel(job)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.ToEntity(m)
	return nil
}

func (r *ImageJobRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ImageJob, error) {
	var m model.ImageJob
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&m), nil
}

func (r *ImageJobRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ImageJob, error) {
	var models []*model.ImageJob
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}

func (r *ImageJobRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ImageJob{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ImageJobRepositoryImpl) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.ImageJob{}).
		Where("id = ?", id).
		Update("status", string(entity.ImageJobStatusProcessing)).Error
}

func (r *ImageJobRepositoryImpl) MarkCompleted(ctx context.Context, id uuid.UUID, outputImages []string) error {
	raw, err := json.Marshal(outputImages)
	if err != nil {
		return err
	}
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.ImageJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        string(entity.ImageJobStatusCompleted),
			"output_images": raw,
			"completed_at":  now,
		}).Error
}

func (r *ImageJobRepositoryImpl) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.ImageJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        string(entity.ImageJobStatusFailed),
			"error_message": errorMessage,
			"completed_at":  now,
		}).Error
}
