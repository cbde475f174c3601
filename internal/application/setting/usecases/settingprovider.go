package usecases

import (
	"context"

	"panelsync/internal/domain/reseller"
	"panelsync/internal/domain/setting"
	sharedConfig "panelsync/internal/shared/config"
	"panelsync/internal/shared/logger"
)

const (
	sourceDatabase = "database"
	sourceConfig   = "config"
)

// EnforcementSettingsProvider resolves enforcement policy with database-first,
// config-fallback logic. It reads the table on every call so overrides take
// effect on the next pass without a restart.
type EnforcementSettingsProvider struct {
	settingRepo setting.Repository
	fallback    sharedConfig.EnforcementConfig
	logger      logger.Interface
}

func NewEnforcementSettingsProvider(
	settingRepo setting.Repository,
	fallback sharedConfig.EnforcementConfig,
	logger logger.Interface,
) *EnforcementSettingsProvider {
	return &EnforcementSettingsProvider{
		settingRepo: settingRepo,
		fallback:    fallback,
		logger:      logger,
	}
}

var _ setting.EnforcementProvider = (*EnforcementSettingsProvider)(nil)

func (p *EnforcementSettingsProvider) GetEnforcementSettings(ctx context.Context) reseller.EnforcementSettings {
	values := p.Describe(ctx)
	return reseller.EnforcementSettings{
		ConfigGrace: reseller.GracePolicy{
			Percent: values[setting.KeyConfigGracePercent].Value.(float64),
			Bytes:   values[setting.KeyConfigGraceBytes].Value.(int64),
		},
		ResellerGrace: reseller.GracePolicy{
			Percent: values[setting.KeyResellerGracePercent].Value.(float64),
			Bytes:   values[setting.KeyResellerGraceBytes].Value.(int64),
		},
		AllowConfigOverrun:        values[setting.KeyAllowConfigOverrun].Value.(bool),
		ExpiryGraceMinutes:        int(values[setting.KeyExpiryGraceMinutes].Value.(int64)),
		WalletSuspensionThreshold: values[setting.KeyWalletSuspensionThreshold].Value.(int64),
		DefaultWalletPricePerGB:   values[setting.KeyDefaultWalletPricePerGB].Value.(int64),
	}
}

// Describe returns every enforcement key with its effective, typed value.
// Float keys hold float64, int keys int64 and bool keys bool.
func (p *EnforcementSettingsProvider) Describe(ctx context.Context) map[string]setting.ConfigValue {
	result := map[string]setting.ConfigValue{
		setting.KeyConfigGracePercent:        {Value: p.fallback.ConfigGracePercent, Source: sourceConfig},
		setting.KeyConfigGraceBytes:          {Value: p.fallback.ConfigGraceBytes, Source: sourceConfig},
		setting.KeyResellerGracePercent:      {Value: p.fallback.ResellerGracePercent, Source: sourceConfig},
		setting.KeyResellerGraceBytes:        {Value: p.fallback.ResellerGraceBytes, Source: sourceConfig},
		setting.KeyAllowConfigOverrun:        {Value: p.fallback.AllowConfigOverrun, Source: sourceConfig},
		setting.KeyExpiryGraceMinutes:        {Value: int64(p.fallback.ExpiryGraceMinutes), Source: sourceConfig},
		setting.KeyWalletSuspensionThreshold: {Value: p.fallback.WalletSuspensionThreshold, Source: sourceConfig},
		setting.KeyDefaultWalletPricePerGB:   {Value: p.fallback.DefaultWalletPricePerGB, Source: sourceConfig},
	}

	settings, err := p.settingRepo.GetByCategory(ctx, setting.CategoryEnforcement)
	if err != nil {
		p.logger.Warnw("failed to get enforcement settings from database, using config",
			"error", err,
		)
		return result
	}

	for _, s := range settings {
		if !s.HasValue() {
			continue
		}
		expected, known := setting.EnforcementKeyTypes[s.Key()]
		if !known || expected != s.ValueType() {
			p.logger.Warnw("ignoring enforcement setting with unexpected key or type",
				"key", s.Key(),
				"value_type", s.ValueType(),
			)
			continue
		}

		var (
			value any
			err   error
		)
		switch expected {
		case setting.ValueTypeFloat:
			value, err = s.GetFloatValue()
		case setting.ValueTypeInt:
			value, err = s.GetInt64Value()
		case setting.ValueTypeBool:
			value, err = s.GetBoolValue()
		}
		if err != nil {
			p.logger.Warnw("ignoring unparsable enforcement setting",
				"key", s.Key(),
				"error", err,
			)
			continue
		}
		result[s.Key()] = setting.ConfigValue{Value: value, Source: sourceDatabase}
	}

	return result
}
