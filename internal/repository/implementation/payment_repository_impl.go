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

	"gorm.io/gorm"
)

type PaymentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PaymentMapper
}

func NewPaymentRepository(db *gorm.DB) contract.PaymentRepository {
	return &PaymentRepositoryImpl{
		db:     db,
		mapper: mapper.NewPaymentMapper(),
	}
}

func (r *PaymentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PaymentRepositoryImpl) Create(ctx context.Context, txn *entity.PaymentTransaction) error {
	m := r.mapper.ToModel(txn)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*txn = *r.mapper.ToEntity(m)
	return nil
}

func (r *PaymentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentTransaction, error) {
	var m model.PaymentTransaction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&m), nil
}

func (r *PaymentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentTransaction, error) {
	var models []*model.PaymentTransaction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}

func (r *PaymentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.PaymentTransaction{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MergeGatewayData folds new keys into the stored payload. Existing keys
// are overwritten individually, so data from initiation is not lost when
// the webhook lands later.
func (r *PaymentRepositoryImpl) MergeGatewayData(ctx context.Context, transactionId string, data map[string]any) error {
	if len(data) == 0 {
		return nil
	}

	var m model.PaymentTransaction
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionId).First(&m).Error; err != nil {
		return err
	}

	merged := map[string]any{}
	if len(m.GatewayData) > 0 {
		if err := json.Unmarshal(m.GatewayData, &merged); err != nil {
			return err
		}
	}
	for k, v := range data {
		merged[k] = v
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Model(&model.PaymentTransaction{}).
		Where("transaction_id = ?", transactionId).
		Update("gateway_data", raw).Error
}

// SettleIfPending is the idempotency gate for webhook delivery: only one
// caller can move a transaction out of pending, duplicates see zero rows
// affected.
func (r *PaymentRepositoryImpl) SettleIfPending(ctx context.Context, transactionId string, status entity.PaymentStatus) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&model.PaymentTransaction{}).
		Where("transaction_id = ? AND status = ?", transactionId, string(entity.PaymentStatusPending)).
		Updates(map[string]interface{}{
			"status":       string(status),
			"completed_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PaymentRepositoryImpl) MarkRefunded(ctx context.Context, transactionId string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.PaymentTransaction{}).
		Where("transaction_id = ? AND status = ?", transactionId, string(entity.PaymentStatusCompleted)).
		Update("status", string(entity.PaymentStatusRefunded))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
