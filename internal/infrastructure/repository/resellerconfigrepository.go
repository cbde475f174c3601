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

type ResellerConfigRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ResellerConfigMapper
	logger logger.Interface
}

func NewResellerConfigRepository(db *gorm.DB, logger logger.Interface) reseller.ConfigRepository {
	return &ResellerConfigRepositoryImpl{
		db:     db,
		mapper: mappers.NewResellerConfigMapper(),
		logger: logger,
	}
}

func (r *ResellerConfigRepositoryImpl) Create(ctx context.Context, entity *reseller.Config) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map config entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create config", "reseller_id", entity.ResellerID(), "error", err)
		return fmt.Errorf("failed to create config: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set config ID: %w", err)
	}
	return nil
}

func (r *ResellerConfigRepositoryImpl) GetByID(ctx context.Context, id uint) (*reseller.Config, error) {
	var model models.ResellerConfigModel

	if err := db.GetTxFromContext(ctx, r.db).Unscoped().First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get config by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *ResellerConfigRepositoryImpl) ListActiveForSync(ctx context.Context, filter reseller.ConfigFilter) ([]*reseller.Config, error) {
	var list []*models.ResellerConfigModel

	query := db.GetTxFromContext(ctx, r.db).
		Where("status = ?", vo.ConfigStatusActive.String())
	if filter.ConfigID != nil {
		query = query.Where("id = ?", *filter.ConfigID)
	}
	if filter.ResellerID != nil {
		query = query.Where("reseller_id = ?", *filter.ResellerID)
	}

	if err := query.Order("reseller_id ASC").Order("id ASC").Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list configs for sync", "error", err)
		return nil, fmt.Errorf("failed to list configs for sync: %w", err)
	}

	return r.mapper.ToEntities(list)
}

func (r *ResellerConfigRepositoryImpl) ListByReseller(ctx context.Context, resellerID uint, includeDeleted bool) ([]*reseller.Config, error) {
	var list []*models.ResellerConfigModel

	query := db.GetTxFromContext(ctx, r.db)
	if includeDeleted {
		query = query.Unscoped()
	}

	if err := query.Where("reseller_id = ?", resellerID).Order("id ASC").Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list configs by reseller", "reseller_id", resellerID, "error", err)
		return nil, fmt.Errorf("failed to list configs by reseller: %w", err)
	}

	return r.mapper.ToEntities(list)
}

// Update writes the config guarded by its version. On success the entity
// carries the new version.
func (r *ResellerConfigRepositoryImpl) Update(ctx context.Context, entity *reseller.Config) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map config entity: %w", err)
	}

	nextVersion := model.Version + 1
	result := db.GetTxFromContext(ctx, r.db).Unscoped().Model(&models.ResellerConfigModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]interface{}{
			"status":              model.Status,
			"traffic_limit_bytes": model.TrafficLimitBytes,
			"usage_bytes":         model.UsageBytes,
			"expires_at":          model.ExpiresAt,
			"disabled_at":         model.DisabledAt,
			"meta":                model.Meta,
			"deleted_at":          model.DeletedAt,
			"version":             nextVersion,
			"updated_at":          model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update config", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update config: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		r.logger.Warnw("config version conflict", "id", model.ID, "version", model.Version)
		return fmt.Errorf("%w: config %d at version %d", reseller.ErrConcurrentModification, model.ID, model.Version)
	}

	entity.SetVersion(nextVersion)
	return nil
}
