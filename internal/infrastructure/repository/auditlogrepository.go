package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"panelsync/internal/domain/reseller"
	"panelsync/internal/infrastructure/persistence/mappers"
	"panelsync/internal/infrastructure/persistence/models"
	"panelsync/internal/shared/db"
	"panelsync/internal/shared/logger"
)

type AuditLogRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AuditLogMapper
	logger logger.Interface
}

func NewAuditLogRepository(db *gorm.DB, logger logger.Interface) reseller.AuditLogRepository {
	return &AuditLogRepositoryImpl{
		db:     db,
		mapper: mappers.NewAuditLogMapper(),
		logger: logger,
	}
}

func (r *AuditLogRepositoryImpl) Create(ctx context.Context, entry *reseller.AuditLog) error {
	model, err := r.mapper.ToModel(entry)
	if err != nil {
		return fmt.Errorf("failed to map audit log: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create audit log", "action", entry.Action(), "target_id", entry.TargetID(), "error", err)
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	entry.SetID(model.ID)
	return nil
}

func (r *AuditLogRepositoryImpl) List(ctx context.Context, filter reseller.AuditLogFilter) ([]*reseller.AuditLog, int64, error) {
	var list []*models.AuditLogModel
	var total int64

	query := db.GetTxFromContext(ctx, r.db).Model(&models.AuditLogModel{})
	if filter.TargetType != "" {
		query = query.Where("target_type = ?", filter.TargetType)
	}
	if filter.TargetID != 0 {
		query = query.Where("target_id = ?", filter.TargetID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count audit logs", "error", err)
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	err := query.
		Scopes(db.Chronological(true), db.Paginate(filter.Page, filter.PageSize)).
		Find(&list).Error
	if err != nil {
		r.logger.Errorw("failed to list audit logs", "error", err)
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}

	entries, err := r.mapper.ToEntities(list)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *AuditLogRepositoryImpl) LatestForTarget(ctx context.Context, targetType string, targetID uint, actions []string) (*reseller.AuditLog, error) {
	var model models.AuditLogModel

	query := db.GetTxFromContext(ctx, r.db).
		Where("target_type = ? AND target_id = ?", targetType, targetID)
	if len(actions) > 0 {
		query = query.Where("action IN ?", actions)
	}

	if err := query.Scopes(db.Chronological(true)).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get latest audit log", "target_type", targetType, "target_id", targetID, "error", err)
		return nil, fmt.Errorf("failed to get latest audit log: %w", err)
	}

	return r.mapper.ToEntity(&model)
}
