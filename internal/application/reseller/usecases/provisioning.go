package usecases

import (
	"context"
	"time"

	"panelsync/internal/application/reseller/dto"
	"panelsync/internal/domain/panel"
	"panelsync/internal/domain/reseller"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/shared/biztime"
	apperrors "panelsync/internal/shared/errors"
	"panelsync/internal/shared/logger"
	"panelsync/internal/shared/utils"
)

// ProvisioningUseCase registers panels, resellers and configs. It is the
// operator tooling used to seed an installation.
type ProvisioningUseCase struct {
	panelRepo    panel.Repository
	resellerRepo reseller.ResellerRepository
	configRepo   reseller.ConfigRepository
	logger       logger.Interface
}

func NewProvisioningUseCase(
	panelRepo panel.Repository,
	resellerRepo reseller.ResellerRepository,
	configRepo reseller.ConfigRepository,
	logger logger.Interface,
) *ProvisioningUseCase {
	return &ProvisioningUseCase{
		panelRepo:    panelRepo,
		resellerRepo: resellerRepo,
		configRepo:   configRepo,
		logger:       logger,
	}
}

func (uc *ProvisioningUseCase) RegisterPanel(ctx context.Context, req dto.RegisterPanelRequest) (*dto.PanelDTO, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	p, err := panel.NewPanel(req.Name, panel.PanelType(req.Type), req.BaseURL, req.Username, req.Password, req.APIKey)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := p.ValidateCredentials(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := uc.panelRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.logger.Infow("panel registered", "panel_id", p.ID(), "type", p.Type())
	return dto.ToPanelDTO(p), nil
}

func (uc *ProvisioningUseCase) ListPanels(ctx context.Context) ([]*dto.PanelDTO, error) {
	panels, err := uc.panelRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PanelDTO, 0, len(panels))
	for _, p := range panels {
		out = append(out, dto.ToPanelDTO(p))
	}
	return out, nil
}

func (uc *ProvisioningUseCase) CreateReseller(ctx context.Context, req dto.CreateResellerRequest) (*dto.ResellerDTO, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	windowEndsAt, err := parseOptionalDate("window_ends_at", req.WindowEndsAt)
	if err != nil {
		return nil, err
	}
	var windowStartsAt *time.Time
	if windowEndsAt != nil {
		start := biztime.StartOfDayUTC(biztime.NowUTC())
		windowStartsAt = &start
	}

	r, err := reseller.NewReseller(req.Name, vo.ResellerType(req.Type), req.TrafficTotalBytes, windowStartsAt, windowEndsAt)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if r.Type() == vo.ResellerTypeWallet {
		r.SetWallet(0, req.WalletPricePerGB)
	}
	if err := uc.resellerRepo.Create(ctx, r); err != nil {
		return nil, err
	}

	uc.logger.Infow("reseller created", "reseller_id", r.ID(), "type", r.Type())
	return dto.ToResellerDTO(r), nil
}

// AttachConfig links a remote panel user to a reseller. The panel must exist
// and carry credentials, so the config can be synced right away.
func (uc *ProvisioningUseCase) AttachConfig(ctx context.Context, req dto.AttachConfigRequest) (*dto.ConfigDTO, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	expiresAt, err := parseOptionalDate("expires_at", req.ExpiresAt)
	if err != nil {
		return nil, err
	}
	if err := reseller.ValidateExpiry(expiresAt, biztime.NowUTC()); err != nil {
		return nil, translateError(err)
	}

	if _, err := loadReseller(ctx, uc.resellerRepo, req.ResellerID); err != nil {
		return nil, err
	}
	p, err := uc.panelRepo.GetByID(ctx, req.PanelID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.NewNotFoundError("panel not found")
	}
	if err := p.ValidateCredentials(); err != nil {
		return nil, translateError(err)
	}

	cfg, err := reseller.NewConfig(req.ResellerID, p.ID(), p.Type(), req.PanelUserID, req.TrafficLimitBytes, expiresAt)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := uc.configRepo.Create(ctx, cfg); err != nil {
		return nil, err
	}

	uc.logger.Infow("config attached",
		"config_id", cfg.ID(),
		"reseller_id", req.ResellerID,
		"panel_id", p.ID(),
	)
	return dto.ToConfigDTO(cfg), nil
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := biztime.ParseDateInBizTimezone(*value)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid "+field, err.Error())
	}
	return &t, nil
}
