package mapper

import (
	"encoding/json"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/model"

	"gorm.io/datatypes"
)

type ImageJobMapper struct{}

func NewImageJobMapper() *ImageJobMapper {
	return &ImageJobMapper{}
}

func (m *ImageJobMapper) ToEntity(j *model.ImageJob) *entity.ImageJob {
	if j == nil {
		return nil
	}

	var inputs, outputs []string
	if len(j.InputImages) > 0 {
		_ = json.Unmarshal(j.InputImages, &inputs)
	}
	if len(j.OutputImages) > 0 {
		_ = json.Unmarshal(j.OutputImages, &outputs)
	}

	return &entity.ImageJob{
		Id:           j.Id,
		UserId:       j.UserId,
		ThreadId:     j.ThreadId,
		Prompt:       j.Prompt,
		Provider:     j.Provider,
		Status:       entity.ImageJobStatus(j.Status),
		InputImages:  inputs,
		OutputImages: outputs,
		ErrorMessage: j.ErrorMessage,
		CreditsSpent: j.CreditsSpent,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
		CompletedAt:  j.CompletedAt,
	}
}

func (m *ImageJobMapper) ToModel(j *entity.ImageJob) *model.ImageJob {
	if j == nil {
		return nil
	}

	var inputs, outputs datatypes.JSON
	if j.InputImages != nil {
		raw, _ := json.Marshal(j.InputImages)
		inputs = datatypes.JSON(raw)
	}
	if j.OutputImages != nil {
		raw, _ := json.Marshal(j.OutputImages)
		outputs = datatypes.JSON(raw)
	}

	return &model.ImageJob{
		Id:           j.Id,
		UserId:       j.UserId,
		ThreadId:     j.ThreadId,
		Prompt:       j.Prompt,
		Provider:     j.Provider,
		Status:       string(j.Status),
		InputImages:  inputs,
		OutputImages: outputs,
		ErrorMessage: j.ErrorMessage,
		CreditsSpent: j.CreditsSpent,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
		CompletedAt:  j.CompletedAt,
	}
}

func (m *ImageJobMapper) ToEntities(jobs []*model.ImageJob) []*entity.ImageJob {
	entities := make([]*entity.ImageJob, len(jobs))
	for i, j := range jobs {
		entities[i] = m.ToEntity(j)
	}
	return entities
}
