package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelsync/internal/application/setting/dto"
	"panelsync/internal/domain/setting"
	sharedConfig "panelsync/internal/shared/config"
	apperrors "panelsync/internal/shared/errors"
	"panelsync/internal/shared/logger"
)

// memorySettingRepo is an in-memory setting.Repository.
type memorySettingRepo struct {
	rows    map[string]*setting.SystemSetting
	listErr error
}

func newMemorySettingRepo() *memorySettingRepo {
	return &memorySettingRepo{rows: make(map[string]*setting.SystemSetting)}
}

func (r *memorySettingRepo) GetByKey(_ context.Context, category, key string) (*setting.SystemSetting, error) {
	if s, ok := r.rows[category+"."+key]; ok {
		return s, nil
	}
	return nil, setting.ErrSettingNotFound
}

func (r *memorySettingRepo) GetByCategory(_ context.Context, category string) ([]*setting.SystemSetting, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var result []*setting.SystemSetting
	for _, s := range r.rows {
		if s.Category() == category {
			result = append(result, s)
		}
	}
	return result, nil
}

func (r *memorySettingRepo) Upsert(_ context.Context, s *setting.SystemSetting) error {
	r.rows[s.Category()+"."+s.Key()] = s
	return nil
}

func (r *memorySettingRepo) Delete(_ context.Context, category, key string) error {
	delete(r.rows, category+"."+key)
	return nil
}

func testFallback() sharedConfig.EnforcementConfig {
	return sharedConfig.EnforcementConfig{
		ConfigGracePercent:   2,
		ConfigGraceBytes:     50 << 20,
		ResellerGracePercent: 2,
		ResellerGraceBytes:   50 << 20,
		ExpiryGraceMinutes:   30,
	}
}

func TestEnforcementSettingsProvider_FallbackAndOverride(t *testing.T) {
	repo := newMemorySettingRepo()
	provider := NewEnforcementSettingsProvider(repo, testFallback(), logger.NewNopLogger())
	ctx := context.Background()

	settings := provider.GetEnforcementSettings(ctx)
	assert.Equal(t, 2.0, settings.ConfigGrace.Percent)
	assert.Equal(t, int64(50<<20), settings.ResellerGrace.Bytes)
	assert.Equal(t, 30, settings.ExpiryGraceMinutes)
	assert.False(t, settings.AllowConfigOverrun)

	update := NewUpdateEnforcementSettingsUseCase(repo, logger.NewNopLogger())
	require.NoError(t, update.Execute(ctx, dto.UpdateEnforcementSettingsRequest{Settings: map[string]string{
		setting.KeyResellerGracePercent: "5",
		setting.KeyAllowConfigOverrun:   "true",
		setting.KeyExpiryGraceMinutes:   "0",
	}}))

	settings = provider.GetEnforcementSettings(ctx)
	assert.Equal(t, 2.0, settings.ConfigGrace.Percent)
	assert.Equal(t, 5.0, settings.ResellerGrace.Percent)
	assert.True(t, settings.AllowConfigOverrun)
	assert.Equal(t, 0, settings.ExpiryGraceMinutes)

	described := provider.Describe(ctx)
	assert.Equal(t, sourceDatabase, described[setting.KeyResellerGracePercent].Source)
	assert.Equal(t, sourceConfig, described[setting.KeyConfigGracePercent].Source)

	require.NoError(t, update.Execute(ctx, dto.UpdateEnforcementSettingsRequest{Settings: map[string]string{
		setting.KeyAllowConfigOverrun: "",
	}}))
	assert.False(t, provider.GetEnforcementSettings(ctx).AllowConfigOverrun)
}

func TestEnforcementSettingsProvider_RepositoryErrorFallsBack(t *testing.T) {
	repo := newMemorySettingRepo()
	repo.listErr = errors.New("db down")
	provider := NewEnforcementSettingsProvider(repo, testFallback(), logger.NewNopLogger())

	settings := provider.GetEnforcementSettings(context.Background())
	assert.Equal(t, int64(50<<20), settings.ConfigGrace.Bytes)
}

func TestUpdateEnforcementSettings_Validation(t *testing.T) {
	repo := newMemorySettingRepo()
	update := NewUpdateEnforcementSettingsUseCase(repo, logger.NewNopLogger())
	ctx := context.Background()

	err := update.Execute(ctx, dto.UpdateEnforcementSettingsRequest{Settings: map[string]string{"nope": "1"}})
	assert.True(t, apperrors.IsValidationError(err))

	err = update.Execute(ctx, dto.UpdateEnforcementSettingsRequest{Settings: map[string]string{
		setting.KeyConfigGracePercent: "-1",
	}})
	assert.True(t, apperrors.IsValidationError(err))

	err = update.Execute(ctx, dto.UpdateEnforcementSettingsRequest{Settings: map[string]string{
		setting.KeyConfigGraceBytes: "abc",
	}})
	assert.True(t, apperrors.IsValidationError(err))
	assert.Empty(t, repo.rows)
}

func TestGetEnforcementSettings_SortedKeys(t *testing.T) {
	provider := NewEnforcementSettingsProvider(newMemorySettingRepo(), testFallback(), logger.NewNopLogger())
	resp := NewGetEnforcementSettingsUseCase(provider).Execute(context.Background())

	require.Len(t, resp.Settings, len(setting.EnforcementKeyTypes))
	assert.Equal(t, setting.KeyAllowConfigOverrun, resp.Settings[0].Key)
	assert.Equal(t, "config", resp.Settings[0].Source)
}
