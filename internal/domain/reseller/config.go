package reseller

import (
	"fmt"
	"time"

	"panelsync/internal/domain/panel"
	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/shared/biztime"
)

// Config is one provisioned account on one remote panel, owned by a single
// reseller. usageBytes counts only traffic since the last reset; earlier
// traffic lives in meta.SettledUsageBytes.
type Config struct {
	id                uint
	resellerID        uint
	panelID           uint
	panelType         panel.PanelType
	panelUserID       string
	status            vo.ConfigStatus
	trafficLimitBytes int64
	usageBytes        int64
	expiresAt         *time.Time
	disabledAt        *time.Time
	deletedAt         *time.Time
	meta              ConfigMeta
	version           int
	createdAt         time.Time
	updatedAt         time.Time
}

// NewConfig creates an active config. A zero limit means unlimited.
func NewConfig(
	resellerID, panelID uint,
	panelType panel.PanelType,
	panelUserID string,
	trafficLimitBytes int64,
	expiresAt *time.Time,
) (*Config, error) {
	if resellerID == 0 {
		return nil, fmt.Errorf("reseller ID is required")
	}
	if panelUserID == "" {
		return nil, fmt.Errorf("panel user ID is required")
	}
	if trafficLimitBytes < 0 {
		return nil, fmt.Errorf("traffic limit cannot be negative")
	}

	now := biztime.NowUTC()
	return &Config{
		resellerID:        resellerID,
		panelID:           panelID,
		panelType:         panelType,
		panelUserID:       panelUserID,
		status:            vo.ConfigStatusActive,
		trafficLimitBytes: trafficLimitBytes,
		expiresAt:         expiresAt,
		meta:              ParseConfigMeta(nil),
		version:           1,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// ReconstructConfig rebuilds a config from persistence.
func ReconstructConfig(
	id, resellerID, panelID uint,
	panelType panel.PanelType,
	panelUserID string,
	status vo.ConfigStatus,
	trafficLimitBytes, usageBytes int64,
	expiresAt, disabledAt, deletedAt *time.Time,
	meta map[string]interface{},
	version int,
	createdAt, updatedAt time.Time,
) (*Config, error) {
	if id == 0 {
		return nil, fmt.Errorf("config ID cannot be zero")
	}
	if !vo.ValidConfigStatuses[status] {
		return nil, fmt.Errorf("invalid config status: %s", status)
	}

	return &Config{
		id:                id,
		resellerID:        resellerID,
		panelID:           panelID,
		panelType:         panelType,
		panelUserID:       panelUserID,
		status:            status,
		trafficLimitBytes: trafficLimitBytes,
		usageBytes:        usageBytes,
		expiresAt:         expiresAt,
		disabledAt:        disabledAt,
		deletedAt:         deletedAt,
		meta:              ParseConfigMeta(meta),
		version:           version,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}, nil
}

func (c *Config) ID() uint                   { return c.id }
func (c *Config) ResellerID() uint           { return c.resellerID }
func (c *Config) PanelID() uint              { return c.panelID }
func (c *Config) PanelType() panel.PanelType { return c.panelType }
func (c *Config) PanelUserID() string        { return c.panelUserID }
func (c *Config) Status() vo.ConfigStatus    { return c.status }
func (c *Config) TrafficLimitBytes() int64   { return c.trafficLimitBytes }
func (c *Config) UsageBytes() int64          { return c.usageBytes }
func (c *Config) ExpiresAt() *time.Time      { return c.expiresAt }
func (c *Config) DisabledAt() *time.Time     { return c.disabledAt }
func (c *Config) DeletedAt() *time.Time      { return c.deletedAt }
func (c *Config) Version() int               { return c.version }
func (c *Config) CreatedAt() time.Time       { return c.createdAt }
func (c *Config) UpdatedAt() time.Time       { return c.updatedAt }

// Meta returns a copy of the typed meta.
func (c *Config) Meta() ConfigMeta {
	return c.meta.clone()
}

// SettledUsageBytes is the usage moved aside by earlier resets.
func (c *Config) SettledUsageBytes() int64 {
	return c.meta.SettledUsageBytes
}

// LifetimeUsageBytes is what the config contributes to its reseller's quota.
func (c *Config) LifetimeUsageBytes() int64 {
	return c.usageBytes + c.meta.SettledUsageBytes
}

func (c *Config) IsActive() bool {
	return c.status == vo.ConfigStatusActive
}

func (c *Config) IsDeleted() bool {
	return c.status == vo.ConfigStatusDeleted || c.deletedAt != nil
}

// DisableCause returns the persisted cause marker, or CauseManuallyDisabled
// for a disabled config that carries none.
func (c *Config) DisableCause() DisableCause {
	if c.meta.Cause.Kind != vo.CauseNone {
		return c.meta.Cause
	}
	if c.status == vo.ConfigStatusDisabled {
		return DisableCause{Kind: vo.CauseManuallyDisabled, Reason: vo.ReasonManual}
	}
	return NoCause()
}

// HasResellerCause reports whether automatic reactivation may touch this config.
func (c *Config) HasResellerCause() bool {
	return c.meta.Cause.IsResellerAttributable()
}

// SetID sets the config ID after persistence.
func (c *Config) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("config ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("config ID cannot be zero")
	}
	c.id = id
	return nil
}

// SetVersion records the version written by the repository.
func (c *Config) SetVersion(version int) {
	c.version = version
}

// IsOverLimit evaluates the per-config traffic policy. A zero limit is
// unlimited and allowOverrun disables the check entirely.
func (c *Config) IsOverLimit(grace GracePolicy, allowOverrun bool) bool {
	if allowOverrun || c.trafficLimitBytes <= 0 {
		return false
	}
	return grace.Exceeded(c.usageBytes, c.trafficLimitBytes)
}

// IsExpired reports whether now is past local midnight of the expiry day plus
// graceMinutes. The stored time-of-day is ignored.
func (c *Config) IsExpired(now time.Time, graceMinutes int) bool {
	if c.expiresAt == nil {
		return false
	}
	boundary := biztime.StartOfDayUTC(*c.expiresAt).Add(time.Duration(graceMinutes) * time.Minute)
	return !now.Before(boundary)
}

// RecordUsage stores the latest remote counter. It reports whether the value changed.
func (c *Config) RecordUsage(usedBytes int64, now time.Time) bool {
	if usedBytes < 0 {
		usedBytes = 0
	}
	if usedBytes == c.usageBytes {
		return false
	}
	c.usageBytes = usedBytes
	c.updatedAt = now
	return true
}

// ResetUsage moves the current usage into settled usage and zeroes the
// counter. Resets may follow each other immediately. It returns the moved
// amount.
func (c *Config) ResetUsage(now time.Time) int64 {
	moved := c.usageBytes
	c.meta.SettledUsageBytes += moved
	c.usageBytes = 0

	resetAt := now.UTC()
	c.meta.LastResetAt = &resetAt

	if c.panelType == panel.TypeEylandoo {
		c.meta.Extra[metaEylandooUsedTraffic] = 0
		c.meta.Extra[metaEylandooDataUsed] = 0
	}

	c.updatedAt = now
	return moved
}

// Disable moves an active config to disabled and tags it with cause. Configs
// that are not active are left unchanged and false is returned.
func (c *Config) Disable(cause DisableCause, now time.Time) bool {
	if c.status != vo.ConfigStatusActive {
		return false
	}
	c.status = vo.ConfigStatusDisabled
	c.disabledAt = &now
	if cause.Kind.IsResellerAttributable() {
		c.meta.Cause = cause
	} else {
		c.meta.Cause = NoCause()
	}
	c.updatedAt = now
	return true
}

// MarkExpired moves an active config to expired.
func (c *Config) MarkExpired(now time.Time) bool {
	if c.status != vo.ConfigStatusActive {
		return false
	}
	c.status = vo.ConfigStatusExpired
	c.disabledAt = &now
	c.updatedAt = now
	return true
}

// Enable moves a disabled or expired config back to active, clears
// disabledAt and strips every cause marker. An active config that still
// carries a stale marker is cleaned up as well. Deleted configs are never
// enabled.
func (c *Config) Enable(now time.Time) bool {
	if c.IsDeleted() {
		return false
	}
	changed := false
	if c.status != vo.ConfigStatusActive {
		c.status = vo.ConfigStatusActive
		changed = true
	}
	if c.disabledAt != nil {
		c.disabledAt = nil
		changed = true
	}
	if c.meta.Cause.Kind != vo.CauseNone {
		c.meta.Cause = NoCause()
		changed = true
	}
	if changed {
		c.updatedAt = now
	}
	return changed
}

// ClearCause drops the cause marker of a config that is not active, so that
// reactivation no longer treats it as reseller-disabled.
func (c *Config) ClearCause(now time.Time) bool {
	if c.status == vo.ConfigStatusActive || c.meta.Cause.Kind == vo.CauseNone {
		return false
	}
	c.meta.Cause = NoCause()
	c.updatedAt = now
	return true
}

// SoftDelete marks the config deleted. Usage and meta are retained so the
// config keeps counting toward its reseller's aggregate.
func (c *Config) SoftDelete(now time.Time) error {
	if c.IsDeleted() {
		return ErrConfigDeleted
	}
	c.status = vo.ConfigStatusDeleted
	c.deletedAt = &now
	c.updatedAt = now
	return nil
}

// ValidateTrafficLimit rejects a limit below the current usage. Zero
// (unlimited) is always accepted.
func (c *Config) ValidateTrafficLimit(limit int64) error {
	if limit < 0 {
		return fmt.Errorf("%w: limit=%d", ErrLimitBelowUsage, limit)
	}
	if limit != 0 && limit < c.usageBytes {
		return fmt.Errorf("%w: limit=%d usage=%d", ErrLimitBelowUsage, limit, c.usageBytes)
	}
	return nil
}

// ValidateExpiry rejects an expiry on a day before today.
func ValidateExpiry(expiresAt *time.Time, now time.Time) error {
	if expiresAt != nil && biztime.IsBeforeToday(*expiresAt, now) {
		return fmt.Errorf("%w: %s", ErrExpiryInPast, expiresAt.Format(time.DateOnly))
	}
	return nil
}

// UpdateLimits validates and applies a new limit and expiry. Nil arguments
// leave the current value unchanged; clearExpiry removes the expiry.
func (c *Config) UpdateLimits(limit *int64, expiresAt *time.Time, clearExpiry bool, now time.Time) error {
	if c.IsDeleted() {
		return ErrConfigDeleted
	}
	if limit != nil {
		if err := c.ValidateTrafficLimit(*limit); err != nil {
			return err
		}
	}
	if expiresAt != nil {
		if err := ValidateExpiry(expiresAt, now); err != nil {
			return err
		}
	}

	if limit != nil {
		c.trafficLimitBytes = *limit
	}
	if clearExpiry {
		c.expiresAt = nil
	} else if expiresAt != nil {
		t := expiresAt.UTC()
		c.expiresAt = &t
	}
	c.updatedAt = now
	return nil
}
