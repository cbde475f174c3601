package usecases

import (
	"context"

	"panelsync/internal/application/reseller/dto"
	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
	apperrors "panelsync/internal/shared/errors"
)

const defaultEventLimit = 50

// ResellerQueries serves the read side of the HTTP surface.
type ResellerQueries struct {
	configRepo   reseller.ConfigRepository
	resellerRepo reseller.ResellerRepository
	eventRepo    reseller.ConfigEventRepository
	auditRepo    reseller.AuditLogRepository
}

func NewResellerQueries(
	configRepo reseller.ConfigRepository,
	resellerRepo reseller.ResellerRepository,
	eventRepo reseller.ConfigEventRepository,
	auditRepo reseller.AuditLogRepository,
) *ResellerQueries {
	return &ResellerQueries{
		configRepo:   configRepo,
		resellerRepo: resellerRepo,
		eventRepo:    eventRepo,
		auditRepo:    auditRepo,
	}
}

// ListConfigEvents returns the config's events, newest first.
func (q *ResellerQueries) ListConfigEvents(ctx context.Context, configID uint, limit int) ([]*dto.ConfigEventDTO, error) {
	if _, err := loadConfig(ctx, q.configRepo, configID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = defaultEventLimit
	}
	events, err := q.eventRepo.ListByConfig(ctx, configID, limit)
	if err != nil {
		return nil, err
	}
	return dto.ToConfigEventDTOs(events), nil
}

func (q *ResellerQueries) GetConfig(ctx context.Context, configID uint) (*dto.ConfigDTO, error) {
	cfg, err := loadConfig(ctx, q.configRepo, configID)
	if err != nil {
		return nil, err
	}
	return dto.ToConfigDTO(cfg), nil
}

func (q *ResellerQueries) GetReseller(ctx context.Context, resellerID uint) (*dto.ResellerDTO, error) {
	r, err := loadReseller(ctx, q.resellerRepo, resellerID)
	if err != nil {
		return nil, err
	}
	return dto.ToResellerDTO(r), nil
}

// ListResellerConfigs returns the reseller's configs including deleted ones.
func (q *ResellerQueries) ListResellerConfigs(ctx context.Context, resellerID uint) ([]*dto.ConfigDTO, error) {
	if _, err := loadReseller(ctx, q.resellerRepo, resellerID); err != nil {
		return nil, err
	}
	configs, err := q.configRepo.ListByReseller(ctx, resellerID, true)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ConfigDTO, 0, len(configs))
	for _, c := range configs {
		out = append(out, dto.ToConfigDTO(c))
	}
	return out, nil
}

func (q *ResellerQueries) ListResellers(ctx context.Context, req dto.ListResellersRequest) (*dto.ResellerPage, error) {
	filter := reseller.ResellerFilter{Page: req.Page, PageSize: req.PageSize}
	if req.Status != "" {
		status := vo.ResellerStatus(req.Status)
		if !vo.ValidResellerStatuses[status] {
			return nil, apperrors.NewValidationError("invalid reseller status", req.Status)
		}
		filter.Statuses = []vo.ResellerStatus{status}
	}
	if req.Type != "" {
		resellerType := vo.ResellerType(req.Type)
		if !vo.ValidResellerTypes[resellerType] {
			return nil, apperrors.NewValidationError("invalid reseller type", req.Type)
		}
		filter.Types = []vo.ResellerType{resellerType}
	}

	resellers, total, err := q.resellerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := &dto.ResellerPage{
		Items: make([]*dto.ResellerDTO, 0, len(resellers)),
		Total: total,
	}
	for _, r := range resellers {
		page.Items = append(page.Items, dto.ToResellerDTO(r))
	}
	return page, nil
}

// ListResellerAudit returns the reseller's audit entries, newest first.
func (q *ResellerQueries) ListResellerAudit(ctx context.Context, resellerID uint, page, pageSize int) (*dto.AuditLogPage, error) {
	if _, err := loadReseller(ctx, q.resellerRepo, resellerID); err != nil {
		return nil, err
	}
	logs, total, err := q.auditRepo.List(ctx, reseller.AuditLogFilter{
		TargetType: vo.TargetReseller,
		TargetID:   resellerID,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, err
	}
	return &dto.AuditLogPage{Items: dto.ToAuditLogDTOs(logs), Total: total}, nil
}
