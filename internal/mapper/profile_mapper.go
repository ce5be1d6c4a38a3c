package mapper

import (
	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/model"
)

type ProfileMapper struct{}

func NewProfileMapper() *ProfileMapper {
	return &ProfileMapper{}
}

func (m *ProfileMapper) ToEntity(p *model.Profile) *entity.Profile {
	if p == nil {
		return nil
	}
	return &entity.Profile{
		Id:              p.Id,
		UserId:          p.UserId,
		Credits:         p.Credits,
		ImagesGenerated: p.ImagesGenerated,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (m *ProfileMapper) ToModel(p *entity.Profile) *model.Profile {
	if p == nil {
		return nil
	}
	return &model.Profile{
		Id:              p.Id,
		UserId:          p.UserId,
		Credits:         p.Credits,
		ImagesGenerated: p.ImagesGenerated,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
