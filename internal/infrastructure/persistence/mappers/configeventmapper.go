package mappers

import (
	"fmt"

	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/infrastructure/persistence/models"
	"panelsync/internal/shared/mapper"
)

type ConfigEventMapper interface {
	ToEntity(model *models.ConfigEventModel) (*reseller.ConfigEvent, error)
	ToModel(entity *reseller.ConfigEvent) (*models.ConfigEventModel, error)
	ToEntities(models []*models.ConfigEventModel) ([]*reseller.ConfigEvent, error)
}

type ConfigEventMapperImpl struct{}

func NewConfigEventMapper() ConfigEventMapper {
	return &ConfigEventMapperImpl{}
}

func (m *ConfigEventMapperImpl) ToEntity(model *models.ConfigEventModel) (*reseller.ConfigEvent, error) {
	if model == nil {
		return nil, nil
	}
	meta, err := decodeMeta(model.Meta)
	if err != nil {
		return nil, fmt.Errorf("event %d: %w", model.ID, err)
	}
	return reseller.ReconstructConfigEvent(model.ID, model.ConfigID, vo.EventType(model.EventType), meta, model.CreatedAt), nil
}

func (m *ConfigEventMapperImpl) ToModel(entity *reseller.ConfigEvent) (*models.ConfigEventModel, error) {
	if entity == nil {
		return nil, nil
	}
	meta, err := encodeMeta(entity.Meta())
	if err != nil {
		return nil, err
	}
	return &models.ConfigEventModel{
		ID:        entity.ID(),
		ConfigID:  entity.ConfigID(),
		EventType: entity.Type().String(),
		Meta:      meta,
		CreatedAt: entity.CreatedAt(),
	}, nil
}

func (m *ConfigEventMapperImpl) ToEntities(list []*models.ConfigEventModel) ([]*reseller.ConfigEvent, error) {
	return mapper.MapSliceWithError(list, m.ToEntity)
}
