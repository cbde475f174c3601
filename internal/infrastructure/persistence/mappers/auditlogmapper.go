package mappers

import (
	"fmt"

	"panelsync/internal/domain/reseller"
	"panelsync/internal/infrastructure/persistence/models"
	"panelsync/internal/shared/mapper"
)

type AuditLogMapper interface {
	ToEntity(model *models.AuditLogModel) (*reseller.AuditLog, error)
	ToModel(entity *reseller.AuditLog) (*models.AuditLogModel, error)
	ToEntities(models []*models.AuditLogModel) ([]*reseller.AuditLog, error)
}

type AuditLogMapperImpl struct{}

func NewAuditLogMapper() AuditLogMapper {
	return &AuditLogMapperImpl{}
}

func (m *AuditLogMapperImpl) ToEntity(model *models.AuditLogModel) (*reseller.AuditLog, error) {
	if model == nil {
		return nil, nil
	}
	meta, err := decodeMeta(model.Meta)
	if err != nil {
		return nil, fmt.Errorf("audit log %d: %w", model.ID, err)
	}
	return reseller.ReconstructAuditLog(
		model.ID,
		model.Action,
		model.TargetType,
		model.TargetID,
		model.Reason,
		model.ActorID,
		model.ActorType,
		meta,
		model.CreatedAt,
	), nil
}

func (m *AuditLogMapperImpl) ToModel(entity *reseller.AuditLog) (*models.AuditLogModel, error) {
	if entity == nil {
		return nil, nil
	}
	meta, err := encodeMeta(entity.Meta())
	if err != nil {
		return nil, err
	}
	return &models.AuditLogModel{
		ID:         entity.ID(),
		Action:     entity.Action(),
		TargetType: entity.TargetType(),
		TargetID:   entity.TargetID(),
		Reason:     entity.Reason(),
		ActorID:    entity.ActorID(),
		ActorType:  entity.ActorType(),
		Meta:       meta,
		CreatedAt:  entity.CreatedAt(),
	}, nil
}

func (m *AuditLogMapperImpl) ToEntities(list []*models.AuditLogModel) ([]*reseller.AuditLog, error) {
	return mapper.MapSliceWithError(list, m.ToEntity)
}
