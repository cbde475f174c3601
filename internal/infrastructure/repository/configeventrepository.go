package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/infrastructure/persistence/mappers"
	"panelsync/internal/infrastructure/persistence/models"
	"panelsync/internal/shared/db"
	"panelsync/internal/shared/logger"
)

type ConfigEventRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ConfigEventMapper
	logger logger.Interface
}

func NewConfigEventRepository(db *gorm.DB, logger logger.Interface) reseller.ConfigEventRepository {
	return &ConfigEventRepositoryImpl{
		db:     db,
		mapper: mappers.NewConfigEventMapper(),
		logger: logger,
	}
}

func (r *ConfigEventRepositoryImpl) Create(ctx context.Context, event *reseller.ConfigEvent) error {
	model, err := r.mapper.ToModel(event)
	if err != nil {
		return fmt.Errorf("failed to map config event: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create config event", "config_id", event.ConfigID(), "type", event.Type(), "error", err)
		return fmt.Errorf("failed to create config event: %w", err)
	}

	event.SetID(model.ID)
	return nil
}

// ListByConfig returns the newest events first.
func (r *ConfigEventRepositoryImpl) ListByConfig(ctx context.Context, configID uint, limit int) ([]*reseller.ConfigEvent, error) {
	var list []*models.ConfigEventModel

	query := db.GetTxFromContext(ctx, r.db).
		Where("config_id = ?", configID).
		Scopes(db.Chronological(true))
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list config events", "config_id", configID, "error", err)
		return nil, fmt.Errorf("failed to list config events: %w", err)
	}

	return r.mapper.ToEntities(list)
}

func (r *ConfigEventRepositoryImpl) LatestByConfig(ctx context.Context, configID uint, types []vo.EventType) (*reseller.ConfigEvent, error) {
	var model models.ConfigEventModel

	query := db.GetTxFromContext(ctx, r.db).Where("config_id = ?", configID)
	if len(types) > 0 {
		query = query.Where("type IN ?", eventTypeStrings(types))
	}

	if err := query.Scopes(db.Chronological(true)).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get latest config event", "config_id", configID, "error", err)
		return nil, fmt.Errorf("failed to get latest config event: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func eventTypeStrings(types []vo.EventType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
