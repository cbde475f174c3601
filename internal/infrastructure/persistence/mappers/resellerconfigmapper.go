package mappers

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"panelsync/internal/domain/panel"
	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/infrastructure/persistence/models"
	"panelsync/internal/shared/mapper"
)

type ResellerConfigMapper interface {
	ToEntity(model *models.ResellerConfigModel) (*reseller.Config, error)
	ToModel(entity *reseller.Config) (*models.ResellerConfigModel, error)
	ToEntities(models []*models.ResellerConfigModel) ([]*reseller.Config, error)
}

type ResellerConfigMapperImpl struct{}

func NewResellerConfigMapper() ResellerConfigMapper {
	return &ResellerConfigMapperImpl{}
}

func (m *ResellerConfigMapperImpl) ToEntity(model *models.ResellerConfigModel) (*reseller.Config, error) {
	if model == nil {
		return nil, nil
	}

	meta, err := decodeMeta(model.Meta)
	if err != nil {
		return nil, fmt.Errorf("config %d: %w", model.ID, err)
	}

	var deletedAt *time.Time
	if model.DeletedAt.Valid {
		t := model.DeletedAt.Time
		deletedAt = &t
	}

	entity, err := reseller.ReconstructConfig(
		model.ID,
		model.ResellerID,
		model.PanelID,
		panel.PanelType(model.PanelType),
		model.PanelUserID,
		vo.ConfigStatus(model.Status),
		model.TrafficLimitBytes,
		model.UsageBytes,
		model.ExpiresAt,
		model.DisabledAt,
		deletedAt,
		meta,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct config entity: %w", err)
	}
	return entity, nil
}

func (m *ResellerConfigMapperImpl) ToModel(entity *reseller.Config) (*models.ResellerConfigModel, error) {
	if entity == nil {
		return nil, nil
	}

	meta, err := encodeMeta(entity.Meta().ToMap())
	if err != nil {
		return nil, err
	}

	model := &models.ResellerConfigModel{
		ID:                entity.ID(),
		ResellerID:        entity.ResellerID(),
		PanelID:           entity.PanelID(),
		PanelType:         entity.PanelType().String(),
		PanelUserID:       entity.PanelUserID(),
		Status:            entity.Status().String(),
		TrafficLimitBytes: entity.TrafficLimitBytes(),
		UsageBytes:        entity.UsageBytes(),
		ExpiresAt:         entity.ExpiresAt(),
		DisabledAt:        entity.DisabledAt(),
		Meta:              meta,
		Version:           entity.Version(),
		CreatedAt:         entity.CreatedAt(),
		UpdatedAt:         entity.UpdatedAt(),
	}
	if at := entity.DeletedAt(); at != nil {
		model.DeletedAt = gorm.DeletedAt{Time: *at, Valid: true}
	}
	return model, nil
}

func (m *ResellerConfigMapperImpl) ToEntities(list []*models.ResellerConfigModel) ([]*reseller.Config, error) {
	return mapper.MapSlicePtrWithID(list, m.ToEntity, func(model *models.ResellerConfigModel) uint { return model.ID })
}
