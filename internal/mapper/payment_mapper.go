package mapper

import (
	"encoding/json"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/model"

	"gorm.io/datatypes"
)

type PaymentMapper struct{}

func NewPaymentMapper() *PaymentMapper {
	return &PaymentMapper{}
}

func (m *PaymentMapper) ToEntity(t *model.PaymentTransaction) *entity.PaymentTransaction {
	if t == nil {
		return nil
	}

	var data map[string]any
	if len(t.GatewayData) > 0 {
		_ = json.Unmarshal(t.GatewayData, &data)
	}

	return &entity.PaymentTransaction{
		Id:            t.Id,
		UserId:        t.UserId,
		TransactionId: t.TransactionId,
		Gateway:       t.Gateway,
		Amount:        t.Amount,
		Credits:       t.Credits,
		Status:        entity.PaymentStatus(t.Status),
		GatewayData:   data,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		CompletedAt:   t.CompletedAt,
	}
}

func (m *PaymentMapper) ToModel(t *entity.PaymentTransaction) *model.PaymentTransaction {
	if t == nil {
		return nil
	}

	var data datatypes.JSON
	if t.GatewayData != nil {
		raw, _ := json.Marshal(t.GatewayData)
		data = datatypes.JSON(raw)
	}

	return &model.PaymentTransaction{
		Id:            t.Id,
		UserId:        t.UserId,
		TransactionId: t.TransactionId,
		Gateway:       t.Gateway,
		Amount:        t.Amount,
		Credits:       t.Credits,
		Status:        string(t.Status),
		GatewayData:   data,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		CompletedAt:   t.CompletedAt,
	}
}

func (m *PaymentMapper) ToEntities(txns []*model.PaymentTransaction) []*entity.PaymentTransaction {
	entities := make([]*entity.PaymentTransaction, len(txns))
	for i, t := range txns {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
