package reseller

import (
	"context"
	"time"

	vo "panelsync/internal/domain/reseller/valueobjects"
)

type ResellerFilter struct {
	IDs      []uint
	Statuses []vo.ResellerStatus
	Types    []vo.ResellerType
	Page     int
	PageSize int
}

type ResellerRepository interface {
	Create(ctx context.Context, r *Reseller) error
	GetByID(ctx context.Context, id uint) (*Reseller, error)
	List(ctx context.Context, filter ResellerFilter) ([]*Reseller, int64, error)

	// UpdateTrafficUsed persists the recomputed aggregate.
	UpdateTrafficUsed(ctx context.Context, id uint, usedBytes int64) error
	// CompareAndSetStatus moves the reseller to `to` only if its current status
	// is one of `from`. It reports whether this call made the transition.
	CompareAndSetStatus(ctx context.Context, id uint, from []vo.ResellerStatus, to vo.ResellerStatus) (bool, error)
	UpdateQuota(ctx context.Context, id uint, trafficTotalBytes int64, windowEndsAt *time.Time) error
	// AdjustWalletBalance adds delta atomically and returns the new balance.
	AdjustWalletBalance(ctx context.Context, id uint, delta int64) (int64, error)
	// ChargeWallet subtracts cost and advances the billing watermark, but only
	// if the watermark still equals fromBilled.
	ChargeWallet(ctx context.Context, id uint, fromBilled, toBilled, cost int64) (bool, error)
}

type ConfigFilter struct {
	ConfigID   *uint
	ResellerID *uint
}

type ConfigRepository interface {
	Create(ctx context.Context, c *Config) error
	// GetByID also returns soft-deleted configs.
	GetByID(ctx context.Context, id uint) (*Config, error)
	// ListActiveForSync returns active, non-deleted configs ordered by
	// reseller then ID.
	ListActiveForSync(ctx context.Context, filter ConfigFilter) ([]*Config, error)
	ListByReseller(ctx context.Context, resellerID uint, includeDeleted bool) ([]*Config, error)
	// Update writes the whole config guarded by its version and returns
	// ErrConcurrentModification on a mismatch.
	Update(ctx context.Context, c *Config) error
}

type ConfigEventRepository interface {
	Create(ctx context.Context, e *ConfigEvent) error
	ListByConfig(ctx context.Context, configID uint, limit int) ([]*ConfigEvent, error)
	// LatestByConfig returns the newest event of one of types, or nil.
	LatestByConfig(ctx context.Context, configID uint, types []vo.EventType) (*ConfigEvent, error)
}

type AuditLogFilter struct {
	TargetType string
	TargetID   uint
	Action     string
	Page       int
	PageSize   int
}

type AuditLogRepository interface {
	Create(ctx context.Context, a *AuditLog) error
	List(ctx context.Context, filter AuditLogFilter) ([]*AuditLog, int64, error)
	// LatestForTarget returns the newest entry for the target whose action is
	// one of actions, or nil.
	LatestForTarget(ctx context.Context, targetType string, targetID uint, actions []string) (*AuditLog, error)
}

type WalletTransactionRepository interface {
	Create(ctx context.Context, t *WalletTransaction) error
	GetByReference(ctx context.Context, reference string) (*WalletTransaction, error)
	// MarkCompleted moves a pending transaction to completed and reports
	// whether this call did so.
	MarkCompleted(ctx context.Context, id uint, at time.Time) (bool, error)
}
