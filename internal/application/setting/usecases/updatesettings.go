package usecases

import (
	"context"
	"errors"
	"fmt"

	"panelsync/internal/application/setting/dto"
	"panelsync/internal/domain/setting"
	apperrors "panelsync/internal/shared/errors"
	"panelsync/internal/shared/logger"
)

// UpdateEnforcementSettingsUseCase writes enforcement overrides. All values
// are validated before any row is written.
type UpdateEnforcementSettingsUseCase struct {
	settingRepo setting.Repository
	logger      logger.Interface
}

func NewUpdateEnforcementSettingsUseCase(
	settingRepo setting.Repository,
	logger logger.Interface,
) *UpdateEnforcementSettingsUseCase {
	return &UpdateEnforcementSettingsUseCase{
		settingRepo: settingRepo,
		logger:      logger,
	}
}

func (uc *UpdateEnforcementSettingsUseCase) Execute(ctx context.Context, request dto.UpdateEnforcementSettingsRequest) error {
	if len(request.Settings) == 0 {
		return nil
	}

	pending := make([]*setting.SystemSetting, 0, len(request.Settings))
	var removals []string
	for key, raw := range request.Settings {
		valueType, known := setting.EnforcementKeyTypes[key]
		if !known {
			return apperrors.NewValidationError("unknown enforcement setting", key)
		}
		if raw == "" {
			removals = append(removals, key)
			continue
		}

		s, err := uc.loadOrNew(ctx, key, valueType)
		if err != nil {
			return err
		}
		if err := s.SetValue(raw); err != nil {
			return apperrors.NewValidationError(fmt.Sprintf("invalid value for %s", key), err.Error())
		}
		if err := validateRange(key, s); err != nil {
			return err
		}
		pending = append(pending, s)
	}

	for _, s := range pending {
		if err := uc.settingRepo.Upsert(ctx, s); err != nil {
			uc.logger.Errorw("failed to update setting",
				"key", s.Key(),
				"error", err,
			)
			return fmt.Errorf("failed to update setting %s: %w", s.Key(), err)
		}
	}
	for _, key := range removals {
		if err := uc.settingRepo.Delete(ctx, setting.CategoryEnforcement, key); err != nil && !errors.Is(err, setting.ErrSettingNotFound) {
			return fmt.Errorf("failed to remove setting %s: %w", key, err)
		}
	}

	uc.logger.Infow("enforcement settings updated",
		"updated", len(pending),
		"removed", len(removals),
	)
	return nil
}

func (uc *UpdateEnforcementSettingsUseCase) loadOrNew(ctx context.Context, key string, valueType setting.ValueType) (*setting.SystemSetting, error) {
	existing, err := uc.settingRepo.GetByKey(ctx, setting.CategoryEnforcement, key)
	if err != nil && !errors.Is(err, setting.ErrSettingNotFound) {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return setting.NewSystemSetting(setting.CategoryEnforcement, key, valueType)
}

// validateRange rejects negative grace, expiry grace and price values.
func validateRange(key string, s *setting.SystemSetting) error {
	switch s.ValueType() {
	case setting.ValueTypeFloat:
		if v, _ := s.GetFloatValue(); v < 0 {
			return apperrors.NewValidationError(fmt.Sprintf("%s cannot be negative", key))
		}
	case setting.ValueTypeInt:
		if key == setting.KeyWalletSuspensionThreshold {
			return nil
		}
		if v, _ := s.GetInt64Value(); v < 0 {
			return apperrors.NewValidationError(fmt.Sprintf("%s cannot be negative", key))
		}
	}
	return nil
}
