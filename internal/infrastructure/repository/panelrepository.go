package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"panelsync/internal/domain/panel"
	"panelsync/internal/infrastructure/persistence/mappers"
	"panelsync/internal/infrastructure/persistence/models"
	"panelsync/internal/shared/db"
	"panelsync/internal/shared/logger"
)

type PanelRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PanelMapper
	logger logger.Interface
}

func NewPanelRepository(db *gorm.DB, logger logger.Interface) panel.Repository {
	return &PanelRepositoryImpl{
		db:     db,
		mapper: mappers.NewPanelMapper(),
		logger: logger,
	}
}

func (r *PanelRepositoryImpl) Create(ctx context.Context, p *panel.Panel) error {
	model := r.mapper.ToModel(p)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create panel", "name", p.Name(), "error", err)
		return fmt.Errorf("failed to create panel: %w", err)
	}
	return p.SetID(model.ID)
}

func (r *PanelRepositoryImpl) GetByID(ctx context.Context, id uint) (*panel.Panel, error) {
	var model models.PanelModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get panel by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get panel: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *PanelRepositoryImpl) List(ctx context.Context) ([]*panel.Panel, error) {
	var list []*models.PanelModel

	if err := db.GetTxFromContext(ctx, r.db).Order("id ASC").Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list panels", "error", err)
		return nil, fmt.Errorf("failed to list panels: %w", err)
	}

	return r.mapper.ToEntities(list)
}
