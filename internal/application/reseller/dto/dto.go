package dto

import "time"

// Manual action results.
const (
	ResultSucceeded            = "succeeded"
	ResultSucceededWithWarning = "succeeded_with_warning"
)

type ConfigDTO struct {
	ID                uint       `json:"id"`
	ResellerID        uint       `json:"reseller_id"`
	PanelID           uint       `json:"panel_id"`
	PanelType         string     `json:"panel_type"`
	PanelUserID       string     `json:"panel_user_id"`
	Status            string     `json:"status"`
	TrafficLimitBytes int64      `json:"traffic_limit_bytes"`
	UsageBytes        int64      `json:"usage_bytes"`
	SettledUsageBytes int64      `json:"settled_usage_bytes"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	DisabledAt        *time.Time `json:"disabled_at,omitempty"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty"`
	DisableCause      string     `json:"disable_cause,omitempty"`
	Version           int        `json:"version"`
}

type ResellerDTO struct {
	ID                uint       `json:"id"`
	Name              string     `json:"name"`
	Type              string     `json:"type"`
	Status            string     `json:"status"`
	TrafficTotalBytes int64      `json:"traffic_total_bytes"`
	TrafficUsedBytes  int64      `json:"traffic_used_bytes"`
	WindowStartsAt    *time.Time `json:"window_starts_at,omitempty"`
	WindowEndsAt      *time.Time `json:"window_ends_at,omitempty"`
	WalletBalance     int64      `json:"wallet_balance"`
	WalletPricePerGB  int64      `json:"wallet_price_per_gb"`
}

type ConfigEventDTO struct {
	ID        uint                   `json:"id"`
	Type      string                 `json:"type"`
	Reason    string                 `json:"reason,omitempty"`
	Meta      map[string]interface{} `json:"meta"`
	CreatedAt time.Time              `json:"created_at"`
}

type AuditLogDTO struct {
	ID         uint                   `json:"id"`
	Action     string                 `json:"action"`
	TargetType string                 `json:"target_type"`
	TargetID   uint                   `json:"target_id"`
	Reason     string                 `json:"reason,omitempty"`
	ActorID    *uint                  `json:"actor_id,omitempty"`
	ActorType  *string                `json:"actor_type,omitempty"`
	Meta       map[string]interface{} `json:"meta"`
	CreatedAt  time.Time              `json:"created_at"`
}

type PanelDTO struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	BaseURL string `json:"base_url"`
	Enabled bool   `json:"enabled"`
}

// ActionResult is returned by every manual action. Warning carries the last
// remote error when the local change was applied but the panel call failed.
type ActionResult struct {
	Result   string       `json:"result"`
	Warning  string       `json:"warning,omitempty"`
	Config   *ConfigDTO   `json:"config,omitempty"`
	Reseller *ResellerDTO `json:"reseller,omitempty"`
}

// SyncReport counts what one usage sync pass did.
type SyncReport struct {
	ConfigsChecked       int `json:"configs_checked"`
	ConfigsUpdated       int `json:"configs_updated"`
	ConfigsFailed        int `json:"configs_failed"`
	ConfigsSkipped       int `json:"configs_skipped"`
	ConfigsDisabled      int `json:"configs_disabled"`
	ConfigsExpired       int `json:"configs_expired"`
	ResellersEvaluated   int `json:"resellers_evaluated"`
	ResellersSuspended   int `json:"resellers_suspended"`
	ResellersReactivated int `json:"resellers_reactivated"`
}

// Changed is the number of configs and resellers whose state moved.
func (r *SyncReport) Changed() int {
	return r.ConfigsUpdated + r.ConfigsDisabled + r.ConfigsExpired + r.ResellersSuspended + r.ResellersReactivated
}

// EnforcementReport counts what a reseller-level sweep did.
type EnforcementReport struct {
	Evaluated   int `json:"evaluated"`
	Suspended   int `json:"suspended"`
	Reactivated int `json:"reactivated"`
	Skipped     int `json:"skipped"`
	Failed      int `json:"failed"`
}

func (r *EnforcementReport) Changed() int {
	return r.Suspended + r.Reactivated
}

// BillingReport counts what a wallet billing pass did.
type BillingReport struct {
	Billed      int   `json:"billed"`
	Charged     int64 `json:"charged"`
	Suspended   int   `json:"suspended"`
	Reactivated int   `json:"reactivated"`
	Failed      int   `json:"failed"`
}

func (r *BillingReport) Changed() int {
	return r.Billed + r.Suspended + r.Reactivated
}

type SyncUsageRequest struct {
	ConfigID   *uint
	ResellerID *uint
}

type UpdateConfigLimitsRequest struct {
	TrafficLimitBytes *int64  `json:"traffic_limit_bytes" binding:"omitempty,min=0"`
	ExpiresAt         *string `json:"expires_at" binding:"omitempty,datetime=2006-01-02"`
	ClearExpiry       bool    `json:"clear_expiry"`
}

type AdjustResellerQuotaRequest struct {
	AddTrafficBytes int64   `json:"add_traffic_bytes"`
	WindowEndsAt    *string `json:"window_ends_at" binding:"omitempty,datetime=2006-01-02"`
	ClearWindow     bool    `json:"clear_window"`
}

// TopUpWalletRequest is an already-verified gateway payment.
type TopUpWalletRequest struct {
	Reference  string `json:"reference" binding:"required,max=100"`
	ResellerID uint   `json:"reseller_id" binding:"required"`
	Amount     int64  `json:"amount" binding:"required,gt=0"`
}

type TopUpWalletResponse struct {
	Reference       string `json:"reference"`
	Credited        bool   `json:"credited"`
	Balance         int64  `json:"balance"`
	ResellerStatus  string `json:"reseller_status"`
	Reactivated     bool   `json:"reactivated"`
	AlreadyComplete bool   `json:"already_complete"`
}

type RegisterPanelRequest struct {
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type" binding:"required"`
	BaseURL  string `json:"base_url" binding:"required,url"`
	Username string `json:"username"`
	Password string `json:"password"`
	APIKey   string `json:"api_key"`
}

type CreateResellerRequest struct {
	Name              string  `json:"name" binding:"required"`
	Type              string  `json:"type" binding:"required,oneof=traffic plan wallet"`
	TrafficTotalBytes int64   `json:"traffic_total_bytes" binding:"min=0"`
	WindowEndsAt      *string `json:"window_ends_at" binding:"omitempty,datetime=2006-01-02"`
	WalletPricePerGB  int64   `json:"wallet_price_per_gb" binding:"min=0"`
}

type AttachConfigRequest struct {
	ResellerID        uint    `json:"reseller_id" binding:"required"`
	PanelID           uint    `json:"panel_id" binding:"required"`
	PanelUserID       string  `json:"panel_user_id" binding:"required"`
	TrafficLimitBytes int64   `json:"traffic_limit_bytes" binding:"min=0"`
	ExpiresAt         *string `json:"expires_at" binding:"omitempty,datetime=2006-01-02"`
}

type ListResellersRequest struct {
	Status   string
	Type     string
	Page     int
	PageSize int
}

type ResellerPage struct {
	Items []*ResellerDTO `json:"items"`
	Total int64          `json:"total"`
}

type AuditLogPage struct {
	Items []*AuditLogDTO `json:"items"`
	Total int64          `json:"total"`
}
