package valueobjects

// Reason codes written to events and audit logs.
const (
	ReasonTrafficExceeded        = "traffic_exceeded"
	ReasonTimeExpired            = "time_expired"
	ReasonResellerQuotaExhausted = "reseller_quota_exhausted"
	ReasonResellerWindowExpired  = "reseller_window_expired"
	ReasonTimeWindowExpired      = "time_window_expired"
	ReasonWalletBalanceExhausted = "wallet_balance_exhausted"
	ReasonResellerRecovered      = "reseller_recovered"
	ReasonWalletRecharged        = "wallet_recharged"
	ReasonManual                 = "manual"
	ReasonQuotaAdjusted          = "quota_adjusted"
	ReasonLimitsEdited           = "limits_edited"
	ReasonConfigDeleted          = "config_deleted"
	ReasonUsageReset             = "usage_reset"
)

// Audit actions.
const (
	ActionResellerSuspended     = "reseller_suspended"
	ActionResellerActivated     = "reseller_activated"
	ActionResellerQuotaAdjusted = "reseller_quota_adjusted"
	ActionWalletTopUp           = "wallet_topup"

	ActionConfigDisabled = "config_disabled"
	ActionConfigEnabled  = "config_enabled"
	ActionConfigExpired  = "config_expired"
	ActionConfigReset    = "config_usage_reset"
	ActionConfigEdited   = "config_edited"
	ActionConfigDeleted  = "config_deleted"
)

// Audit target types.
const (
	TargetReseller       = "reseller"
	TargetResellerConfig = "reseller_config"
)

// TransitionActions are the audit actions that take part in duplicate
// suppression.
var TransitionActions = []string{
	ActionResellerSuspended,
	ActionResellerActivated,
	ActionConfigDisabled,
	ActionConfigEnabled,
	ActionConfigExpired,
}

// IsTransitionAction reports whether action records a status change.
func IsTransitionAction(action string) bool {
	for _, a := range TransitionActions {
		if a == action {
			return true
		}
	}
	return false
}
