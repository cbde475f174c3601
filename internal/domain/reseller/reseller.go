package reseller

import (
	"fmt"
	"time"

	vo "panelsync/internal/domain/reseller/valueobjects"
	"panelsync/internal/shared/biztime"
	"panelsync/internal/shared/constants"
)

// Reseller is the billing account of one operator.
type Reseller struct {
	id                uint
	name              string
	resellerType      vo.ResellerType
	status            vo.ResellerStatus
	trafficTotalBytes int64
	trafficUsedBytes  int64
	windowStartsAt    *time.Time
	windowEndsAt      *time.Time
	walletBalance     int64
	walletPricePerGB  int64
	walletBilledBytes int64
	allowedNodeIDs    map[string][]int64
	version           int
	createdAt         time.Time
	updatedAt         time.Time
}

// NewReseller creates an active reseller.
func NewReseller(
	name string,
	resellerType vo.ResellerType,
	trafficTotalBytes int64,
	windowStartsAt, windowEndsAt *time.Time,
) (*Reseller, error) {
	if name == "" {
		return nil, fmt.Errorf("reseller name is required")
	}
	if !vo.ValidResellerTypes[resellerType] {
		return nil, fmt.Errorf("invalid reseller type: %s", resellerType)
	}
	if trafficTotalBytes < 0 {
		return nil, fmt.Errorf("traffic total cannot be negative")
	}
	if windowStartsAt != nil && windowEndsAt != nil && windowEndsAt.Before(*windowStartsAt) {
		return nil, fmt.Errorf("window end must be after window start")
	}

	now := biztime.NowUTC()
	return &Reseller{
		name:              name,
		resellerType:      resellerType,
		status:            vo.ResellerStatusActive,
		trafficTotalBytes: trafficTotalBytes,
		windowStartsAt:    windowStartsAt,
		windowEndsAt:      windowEndsAt,
		allowedNodeIDs:    make(map[string][]int64),
		version:           1,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// ReconstructReseller rebuilds a reseller from persistence.
func ReconstructReseller(
	id uint,
	name string,
	resellerType vo.ResellerType,
	status vo.ResellerStatus,
	trafficTotalBytes, trafficUsedBytes int64,
	windowStartsAt, windowEndsAt *time.Time,
	walletBalance, walletPricePerGB, walletBilledBytes int64,
	allowedNodeIDs map[string][]int64,
	version int,
	createdAt, updatedAt time.Time,
) (*Reseller, error) {
	if id == 0 {
		return nil, fmt.Errorf("reseller ID cannot be zero")
	}
	if !vo.ValidResellerTypes[resellerType] {
		return nil, fmt.Errorf("invalid reseller type: %s", resellerType)
	}
	if !vo.ValidResellerStatuses[status] {
		return nil, fmt.Errorf("invalid reseller status: %s", status)
	}
	if allowedNodeIDs == nil {
		allowedNodeIDs = make(map[string][]int64)
	}

	return &Reseller{
		id:                id,
		name:              name,
		resellerType:      resellerType,
		status:            status,
		trafficTotalBytes: trafficTotalBytes,
		trafficUsedBytes:  trafficUsedBytes,
		windowStartsAt:    windowStartsAt,
		windowEndsAt:      windowEndsAt,
		walletBalance:     walletBalance,
		walletPricePerGB:  walletPricePerGB,
		walletBilledBytes: walletBilledBytes,
		allowedNodeIDs:    allowedNodeIDs,
		version:           version,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}, nil
}

func (r *Reseller) ID() uint                   { return r.id }
func (r *Reseller) Name() string               { return r.name }
func (r *Reseller) Type() vo.ResellerType      { return r.resellerType }
func (r *Reseller) Status() vo.ResellerStatus  { return r.status }
func (r *Reseller) TrafficTotalBytes() int64   { return r.trafficTotalBytes }
func (r *Reseller) TrafficUsedBytes() int64    { return r.trafficUsedBytes }
func (r *Reseller) WindowStartsAt() *time.Time { return r.windowStartsAt }
func (r *Reseller) WindowEndsAt() *time.Time   { return r.windowEndsAt }
func (r *Reseller) WalletBalance() int64       { return r.walletBalance }
func (r *Reseller) WalletPricePerGB() int64    { return r.walletPricePerGB }
func (r *Reseller) WalletBilledBytes() int64   { return r.walletBilledBytes }
func (r *Reseller) Version() int               { return r.version }
func (r *Reseller) CreatedAt() time.Time       { return r.createdAt }
func (r *Reseller) UpdatedAt() time.Time       { return r.updatedAt }

// AllowedNodeIDs returns a copy of the per-vendor node allow-lists.
func (r *Reseller) AllowedNodeIDs() map[string][]int64 {
	out := make(map[string][]int64, len(r.allowedNodeIDs))
	for k, v := range r.allowedNodeIDs {
		out[k] = append([]int64(nil), v...)
	}
	return out
}

// SetAllowedNodeIDs replaces the allow-list for one panel type.
func (r *Reseller) SetAllowedNodeIDs(panelType string, ids []int64) {
	r.allowedNodeIDs[panelType] = append([]int64(nil), ids...)
}

// SetID sets the reseller ID after persistence.
func (r *Reseller) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("reseller ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("reseller ID cannot be zero")
	}
	r.id = id
	return nil
}

// SetWallet configures the wallet of a wallet-type reseller.
func (r *Reseller) SetWallet(balance, pricePerGB int64) {
	r.walletBalance = balance
	r.walletPricePerGB = pricePerGB
}

// AggregateUsedBytes is the quota figure: usage plus settled usage over every
// config the reseller ever owned, deleted ones included.
func AggregateUsedBytes(configs []*Config) int64 {
	var total int64
	for _, c := range configs {
		total += c.LifetimeUsageBytes()
	}
	return total
}

// CurrentUsedBytes sums usage since each config's last reset. Display only.
func CurrentUsedBytes(configs []*Config) int64 {
	var total int64
	for _, c := range configs {
		total += c.UsageBytes()
	}
	return total
}

// ApplyAggregate replaces the cached aggregate. It reports whether it changed.
func (r *Reseller) ApplyAggregate(usedBytes int64) bool {
	if r.trafficUsedBytes == usedBytes {
		return false
	}
	r.trafficUsedBytes = usedBytes
	r.updatedAt = biztime.NowUTC()
	return true
}

// IsQuotaBreached evaluates the traffic quota against the cached aggregate.
// Wallet resellers are billed per GB and have no traffic quota.
func (r *Reseller) IsQuotaBreached(grace GracePolicy) bool {
	if !r.resellerType.HasTrafficQuota() {
		return false
	}
	return grace.Exceeded(r.trafficUsedBytes, r.trafficTotalBytes)
}

// IsWindowExpired reports whether now has reached local midnight of the
// window's last day. A nil window never expires and no grace applies.
func (r *Reseller) IsWindowExpired(now time.Time) bool {
	if r.windowEndsAt == nil {
		return false
	}
	return biztime.DayBoundaryReached(now, *r.windowEndsAt)
}

// HasTrafficHeadroom requires genuine headroom: usage at or below the total,
// not merely within grace.
func (r *Reseller) HasTrafficHeadroom() bool {
	if !r.resellerType.HasTrafficQuota() {
		return true
	}
	return r.trafficUsedBytes <= r.trafficTotalBytes
}

// IsWalletExhausted reports whether a wallet reseller's balance is at or
// below threshold.
func (r *Reseller) IsWalletExhausted(threshold int64) bool {
	return r.resellerType == vo.ResellerTypeWallet && r.walletBalance <= threshold
}

// BreachCause returns the reseller-level cause that currently applies, quota
// first and window second, or CauseNone.
func (r *Reseller) BreachCause(now time.Time, settings EnforcementSettings) vo.CauseKind {
	if r.IsQuotaBreached(settings.ResellerGrace) {
		return vo.CauseQuotaExhausted
	}
	if r.IsWindowExpired(now) {
		return vo.CauseWindowExpired
	}
	return vo.CauseNone
}

// Skip reasons returned by ReactivationBlocker.
const (
	SkipNotSuspended  = "not_suspended"
	SkipNoHeadroom    = "no_traffic_headroom"
	SkipWindowExpired = "window_expired"
	SkipWalletTooLow  = "wallet_balance_below_threshold"
)

// ReactivationBlocker returns why a suspended reseller must stay suspended,
// or "" when it may be reactivated.
func (r *Reseller) ReactivationBlocker(now time.Time, settings EnforcementSettings) string {
	if !r.status.IsSuspended() {
		return SkipNotSuspended
	}
	if !r.HasTrafficHeadroom() {
		return SkipNoHeadroom
	}
	if r.IsWindowExpired(now) {
		return SkipWindowExpired
	}
	if r.IsWalletExhausted(settings.WalletSuspensionThreshold) {
		return SkipWalletTooLow
	}
	return ""
}

// TransitionTo applies a status change in memory after the repository's
// compare-and-set succeeded.
func (r *Reseller) TransitionTo(target vo.ResellerStatus) error {
	if !r.status.CanTransitionTo(target) {
		return ErrInvalidTransition(r.status.String(), target.String())
	}
	r.status = target
	r.updatedAt = biztime.NowUTC()
	return nil
}

// AdjustQuota adds traffic and/or moves the window end. A nil windowEndsAt
// keeps the current window unless clearWindow is set.
func (r *Reseller) AdjustQuota(addBytes int64, windowEndsAt *time.Time, clearWindow bool) error {
	if r.trafficTotalBytes+addBytes < 0 {
		return fmt.Errorf("traffic total cannot be negative")
	}
	r.trafficTotalBytes += addBytes
	if clearWindow {
		r.windowEndsAt = nil
	} else if windowEndsAt != nil {
		t := windowEndsAt.UTC()
		r.windowEndsAt = &t
	}
	r.updatedAt = biztime.NowUTC()
	return nil
}

// PricePerGB returns the reseller's wallet price, or fallback when unset.
func (r *Reseller) PricePerGB(fallback int64) int64 {
	if r.walletPricePerGB > 0 {
		return r.walletPricePerGB
	}
	return fallback
}

// WalletCost is the cumulative charge for usedBytes at pricePerGB, rounded
// down. Billing charges WalletCost(new) - WalletCost(billed) so rounding never
// accumulates across ticks.
func WalletCost(usedBytes, pricePerGB int64) int64 {
	if usedBytes <= 0 || pricePerGB <= 0 {
		return 0
	}
	gib := constants.GiB
	return usedBytes/gib*pricePerGB + (usedBytes%gib)*pricePerGB/gib
}
