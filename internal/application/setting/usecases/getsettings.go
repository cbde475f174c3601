package usecases

import (
	"context"
	"sort"

	"panelsync/internal/application/setting/dto"
	"panelsync/internal/domain/setting"
)

// GetEnforcementSettingsUseCase lists the effective enforcement settings.
type GetEnforcementSettingsUseCase struct {
	provider setting.EnforcementProvider
}

func NewGetEnforcementSettingsUseCase(provider setting.EnforcementProvider) *GetEnforcementSettingsUseCase {
	return &GetEnforcementSettingsUseCase{provider: provider}
}

func (uc *GetEnforcementSettingsUseCase) Execute(ctx context.Context) *dto.EnforcementSettingsResponse {
	values := uc.provider.Describe(ctx)

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	response := &dto.EnforcementSettingsResponse{
		Category: setting.CategoryEnforcement,
		Settings: make([]dto.EnforcementSettingResponse, 0, len(keys)),
	}
	for _, k := range keys {
		response.Settings = append(response.Settings, dto.EnforcementSettingResponse{
			Key:       k,
			Value:     values[k].Value,
			ValueType: string(setting.EnforcementKeyTypes[k]),
			Source:    values[k].Source,
		})
	}
	return response
}
