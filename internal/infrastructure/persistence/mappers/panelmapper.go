package mappers

import (
	"fmt"

	"panelsync/internal/domain/panel"
	"panelsync/internal/infrastructure/persistence/models"
	"panelsync/internal/shared/mapper"
)

type PanelMapper interface {
	ToEntity(model *models.PanelModel) (*panel.Panel, error)
	ToModel(entity *panel.Panel) *models.PanelModel
	ToEntities(models []*models.PanelModel) ([]*panel.Panel, error)
}

type PanelMapperImpl struct{}

func NewPanelMapper() PanelMapper {
	return &PanelMapperImpl{}
}

func (m *PanelMapperImpl) ToEntity(model *models.PanelModel) (*panel.Panel, error) {
	if model == nil {
		return nil, nil
	}
	entity, err := panel.ReconstructPanel(
		model.ID,
		model.Name,
		panel.PanelType(model.PanelType),
		model.BaseURL,
		model.Username,
		model.Password,
		model.APIKey,
		model.Enabled,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct panel entity: %w", err)
	}
	return entity, nil
}

func (m *PanelMapperImpl) ToModel(entity *panel.Panel) *models.PanelModel {
	if entity == nil {
		return nil
	}
	return &models.PanelModel{
		ID:        entity.ID(),
		Name:      entity.Name(),
		PanelType: entity.Type().String(),
		BaseURL:   entity.BaseURL(),
		Username:  entity.Username(),
		Password:  entity.Password(),
		APIKey:    entity.APIKey(),
		Enabled:   entity.Enabled(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}
}

func (m *PanelMapperImpl) ToEntities(list []*models.PanelModel) ([]*panel.Panel, error) {
	return mapper.MapSlicePtrWithID(list, m.ToEntity, func(model *models.PanelModel) uint { return model.ID })
}
