package reseller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelsync/internal/domain/panel"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/shared/biztime"
	"panelsync/internal/shared/constants"
)

func tehran(t *testing.T) *time.Location {
	t.Helper()
	biztime.MustInit(biztime.DefaultTimezone)
	loc, err := time.LoadLocation("Asia/Tehran")
	require.NoError(t, err)
	return loc
}

func newTestConfig(t *testing.T, panelType panel.PanelType, status vo.ConfigStatus, limit, usage int64, meta map[string]interface{}) *Config {
	t.Helper()
	now := time.Now().UTC()
	c, err := ReconstructConfig(
		1, 10, 1,
		panelType,
		"user-1",
		status,
		limit, usage,
		nil, // expiresAt
		nil, // disabledAt
		nil, // deletedAt
		meta,
		1,
		now, now,
	)
	require.NoError(t, err)
	return c
}

func TestNewConfig_Validation(t *testing.T) {
	_, err := NewConfig(0, 1, panel.TypeMarzban, "u", 0, nil)
	assert.Error(t, err)

	_, err = NewConfig(1, 1, panel.TypeMarzban, "", 0, nil)
	assert.Error(t, err)

	_, err = NewConfig(1, 1, panel.TypeMarzban, "u", -1, nil)
	assert.Error(t, err)

	c, err := NewConfig(1, 1, panel.TypeMarzban, "u", constants.GiB, nil)
	require.NoError(t, err)
	assert.True(t, c.IsActive())
	assert.Equal(t, 1, c.Version())
	assert.Equal(t, vo.CauseNone, c.DisableCause().Kind)
}

func TestConfig_IsOverLimit(t *testing.T) {
	grace := DefaultEnforcementSettings().ConfigGrace
	limit := constants.GiB
	bigLimit := 10 * constants.GiB
	// 2% of 10GiB is larger than 50MiB.
	bigAllowance := int64(float64(bigLimit) * 2 / 100)

	tests := []struct {
		name     string
		limit    int64
		usage    int64
		overrun  bool
		expected bool
	}{
		{"usage equal to limit", limit, limit, false, false},
		{"usage at fixed grace", limit, limit + 50*constants.MiB, false, false},
		{"usage one byte past fixed grace", limit, limit + 50*constants.MiB + 1, false, true},
		{"usage at percent grace", bigLimit, bigLimit + bigAllowance, false, false},
		{"usage one byte past percent grace", bigLimit, bigLimit + bigAllowance + 1, false, true},
		{"unlimited", 0, 100 * constants.GiB, false, false},
		{"overrun allowed", limit, 5 * limit, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestConfig(t, panel.TypeMarzban, vo.ConfigStatusActive, tt.limit, tt.usage, nil)
			assert.Equal(t, tt.expected, c.IsOverLimit(grace, tt.overrun))
		})
	}
}

func TestConfig_IsExpired_MidnightBoundary(t *testing.T) {
	loc := tehran(t)
	expires := time.Date(2025, 11, 3, 14, 30, 0, 0, loc).UTC()

	c := newTestConfig(t, panel.TypeMarzban, vo.ConfigStatusActive, 0, 0, nil)
	c.expiresAt = &expires

	assert.False(t, c.IsExpired(time.Date(2025, 11, 2, 23, 59, 59, 0, loc), 0))
	assert.True(t, c.IsExpired(time.Date(2025, 11, 3, 0, 0, 0, 0, loc), 0))
	assert.True(t, c.IsExpired(time.Date(2025, 11, 3, 9, 0, 0, 0, loc), 0))

	assert.False(t, c.IsExpired(time.Date(2025, 11, 3, 0, 29, 59, 0, loc), 30))
	assert.True(t, c.IsExpired(time.Date(2025, 11, 3, 0, 30, 0, 0, loc), 30))

	c.expiresAt = nil
	assert.False(t, c.IsExpired(time.Date(2030, 1, 1, 0, 0, 0, 0, loc), 0))
}

func TestConfig_ResetUsage_Accumulates(t *testing.T) {
	now := time.Now().UTC()
	c := newTestConfig(t, panel.TypeMarzban, vo.ConfigStatusActive, 0, 100, nil)

	moved := c.ResetUsage(now)
	assert.Equal(t, int64(100), moved)
	assert.Equal(t, int64(0), c.UsageBytes())
	assert.Equal(t, int64(100), c.SettledUsageBytes())

	c.RecordUsage(250, now)
	c.ResetUsage(now)
	assert.Equal(t, int64(350), c.SettledUsageBytes())
	assert.Equal(t, int64(350), c.LifetimeUsageBytes())

	// Back-to-back resets are allowed and move nothing.
	assert.Equal(t, int64(0), c.ResetUsage(now))
	assert.Equal(t, int64(350), c.SettledUsageBytes())
	require.NotNil(t, c.Meta().LastResetAt)
}

func TestConfig_ResetUsage_EylandooMirrors(t *testing.T) {
	c := newTestConfig(t, panel.TypeEylandoo, vo.ConfigStatusActive, 0, 500,
		map[string]interface{}{"used_traffic": float64(500), "data_used": float64(500), "note": "x"})

	c.ResetUsage(time.Now().UTC())

	meta := c.Meta().ToMap()
	assert.Equal(t, 0, meta["used_traffic"])
	assert.Equal(t, 0, meta["data_used"])
	assert.Equal(t, "x", meta["note"])
	assert.Equal(t, int64(500), meta["settled_usage_bytes"])
}

func TestConfig_DisableAndEnable(t *testing.T) {
	now := time.Now().UTC()

	t.Run("reseller cause writes marker", func(t *testing.T) {
		c := newTestConfig(t, panel.TypeMarzban, vo.ConfigStatusActive, 0, 0, nil)

		assert.True(t, c.Disable(NewDisableCause(vo.CauseQuotaExhausted, 10), now))
		assert.Equal(t, vo.ConfigStatusDisabled, c.Status())
		assert.NotNil(t, c.DisabledAt())
		assert.True(t, c.HasResellerCause())

		meta := c.Meta().ToMap()
		assert.Equal(t, true, meta["disabled_by_reseller_suspension"])
		assert.Equal(t, vo.ReasonResellerQuotaExhausted, meta["disabled_by_reseller_suspension_reason"])

		assert.True(t, c.Enable(now))
		assert.True(t, c.IsActive())
		assert.Nil(t, c.DisabledAt())
		assert.False(t, c.HasResellerCause())
		assert.NotContains(t, c.Meta().ToMap(), "disabled_by_reseller_suspension")
	})

	t.Run("manual disable carries no marker", func(t *testing.T) {
		c := newTestConfig(t, panel.TypeMarzban, vo.ConfigStatusActive, 0, 0, nil)

		assert.True(t, c.Disable(DisableCause{Kind: vo.CauseManuallyDisabled}, now))
		assert.False(t, c.HasResellerCause())
		assert.Equal(t, vo.CauseManuallyDisabled, c.DisableCause().Kind)
	})

	t.Run("disable is a no-op unless active", func(t *testing.T) {
		c := newTestConfig(t, panel.TypeMarzban, vo.ConfigStatusDisabled, 0, 0, nil)
		assert.False(t, c.Disable(NewDisableCause(vo.CauseWindowExpired, 10), now))
		assert.False(t, c.HasResellerCause())
	})

	t.Run("enable heals stale marker on active config", func(t *testing.T) {
		c := newTestConfig(t, panel.TypeMarzban, vo.ConfigStatusActive, 0, 0,
			map[string]interface{}{"suspended_by_time_window": "1"})
		require.True(t, c.HasResellerCause())

		assert.True(t, c.Enable(now))
		assert.False(t, c.HasResellerCause())
		assert.False(t, c.Enable(now))
	})

	t.Run("deleted config is never enabled", func(t *testing.T) {
		c := newTestConfig(t, panel.TypeMarzban, vo.ConfigStatusDeleted, 0, 0, nil)
		assert.False(t, c.Enable(now))
		assert.Equal(t, vo.ConfigStatusDeleted, c.Status())
	})
}

func TestConfig_SoftDeleteKeepsUsage(t *testing.T) {
	now := time.Now().UTC()
	c := newTestConfig(t, panel.TypeMarzban, vo.ConfigStatusActive, 0, 700,
		map[string]interface{}{"settled_usage_bytes": float64(300)})

	require.NoError(t, c.SoftDelete(now))
	assert.True(t, c.IsDeleted())
	assert.Equal(t, int64(1000), c.LifetimeUsageBytes())

	assert.ErrorIs(t, c.SoftDelete(now), ErrConfigDeleted)
}

func TestConfig_UpdateLimits(t *testing.T) {
	loc := tehran(t)
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, loc)

	c := newTestConfig(t, panel.TypeMarzban, vo.ConfigStatusActive, 2*constants.GiB, constants.GiB, nil)

	below := constants.GiB - 1
	assert.ErrorIs(t, c.UpdateLimits(&below, nil, false, now), ErrLimitBelowUsage)

	yesterday := time.Date(2025, 11, 2, 23, 0, 0, 0, loc)
	assert.ErrorIs(t, c.UpdateLimits(nil, &yesterday, false, now), ErrExpiryInPast)

	unlimited := int64(0)
	earlyToday := time.Date(2025, 11, 3, 0, 30, 0, 0, loc)
	require.NoError(t, c.UpdateLimits(&unlimited, &earlyToday, false, now))
	assert.Equal(t, int64(0), c.TrafficLimitBytes())
	require.NotNil(t, c.ExpiresAt())

	require.NoError(t, c.UpdateLimits(nil, nil, true, now))
	assert.Nil(t, c.ExpiresAt())

	require.NoError(t, c.SoftDelete(now))
	assert.ErrorIs(t, c.UpdateLimits(&unlimited, nil, false, now), ErrConfigDeleted)
}
