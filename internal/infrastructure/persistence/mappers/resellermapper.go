package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/infrastructure/persistence/models"
	"panelsync/internal/shared/mapper"
)

type ResellerMapper interface {
	ToEntity(model *models.ResellerModel) (*reseller.Reseller, error)
	ToModel(entity *reseller.Reseller) (*models.ResellerModel, error)
	ToEntities(models []*models.ResellerModel) ([]*reseller.Reseller, error)
}

type ResellerMapperImpl struct{}

func NewResellerMapper() ResellerMapper {
	return &ResellerMapperImpl{}
}

func (m *ResellerMapperImpl) ToEntity(model *models.ResellerModel) (*reseller.Reseller, error) {
	if model == nil {
		return nil, nil
	}

	var nodeIDs map[string][]int64
	if len(model.AllowedNodeIDs) > 0 && string(model.AllowedNodeIDs) != "null" {
		if err := json.Unmarshal(model.AllowedNodeIDs, &nodeIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal allowed node ids: %w", err)
		}
	}

	entity, err := reseller.ReconstructReseller(
		model.ID,
		model.Name,
		vo.ResellerType(model.Type),
		vo.ResellerStatus(model.Status),
		model.TrafficTotalBytes,
		model.TrafficUsedBytes,
		model.WindowStartsAt,
		model.WindowEndsAt,
		model.WalletBalance,
		model.WalletPricePerGB,
		model.WalletBilledBytes,
		nodeIDs,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct reseller entity: %w", err)
	}
	return entity, nil
}

func (m *ResellerMapperImpl) ToModel(entity *reseller.Reseller) (*models.ResellerModel, error) {
	if entity == nil {
		return nil, nil
	}

	var nodeIDs datatypes.JSON
	if ids := entity.AllowedNodeIDs(); len(ids) > 0 {
		data, err := json.Marshal(ids)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal allowed node ids: %w", err)
		}
		nodeIDs = data
	}

	return &models.ResellerModel{
		ID:                entity.ID(),
		Name:              entity.Name(),
		Type:              entity.Type().String(),
		Status:            entity.Status().String(),
		TrafficTotalBytes: entity.TrafficTotalBytes(),
		TrafficUsedBytes:  entity.TrafficUsedBytes(),
		WindowStartsAt:    entity.WindowStartsAt(),
		WindowEndsAt:      entity.WindowEndsAt(),
		WalletBalance:     entity.WalletBalance(),
		WalletPricePerGB:  entity.WalletPricePerGB(),
		WalletBilledBytes: entity.WalletBilledBytes(),
		AllowedNodeIDs:    nodeIDs,
		Version:           entity.Version(),
		CreatedAt:         entity.CreatedAt(),
		UpdatedAt:         entity.UpdatedAt(),
	}, nil
}

func (m *ResellerMapperImpl) ToEntities(list []*models.ResellerModel) ([]*reseller.Reseller, error) {
	return mapper.MapSlicePtrWithID(list, m.ToEntity, func(model *models.ResellerModel) uint { return model.ID })
}
