package implementation

import (
	"context"
	"errors"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/mapper"
	"ai-imagegen-be/internal/model"
	"ai-imagegen-be/internal/repository/contract"
	"ai-imagegen-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProfileMapper
}

func NewProfileRepository(db *gorm.DB) contract.ProfileRepository {
	return &ProfileRepositoryImpl{
		db:     db,
		mapper: mapper.NewProfileMapper(),
	}
}

func (r *ProfileRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProfileRepositoryImpl) Create(ctx context.Context, profile *entity.Profile) error {
	m := r.mapper.ToModel(profile)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProfileRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Profile, error) {
	var m model.Profile
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&m), nil
}

// Debit is a single conditional UPDATE so the balance can never go
// negative, no matter how many requests race on the same profile.
func (r *ProfileRepositoryImpl) Debit(ctx context.Context, userId uuid.UUID, amount int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("user_id = ? AND credits >= ?", userId, amount).
		Update("credits", gorm.Expr("credits - ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ProfileRepositoryImpl) Credit(ctx context.Context, userId uuid.UUID, amount int) error {
	return r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("user_id = ?", userId).
		Update("credits", gorm.Expr("credits + ?", amount)).Error
}

func (r *ProfileRepositoryImpl) IncrementImagesGenerated(ctx context.Context, userId uuid.UUID, count int) error {
	return r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("user_id = ?", userId).
		Update("images_generated", gorm.Expr("images_generated + ?", count)).Error
}
