package valueobjects

// CauseKind tags why a config was disabled.
type CauseKind string

const (
	CauseNone             CauseKind = "none"
	CauseQuotaExhausted   CauseKind = "quota_exhausted"
	CauseWindowExpired    CauseKind = "window_expired"
	CauseWalletExhausted  CauseKind = "wallet_exhausted"
	CauseManuallyDisabled CauseKind = "manually_disabled"
)

func (k CauseKind) String() string {
	return string(k)
}

// IsResellerAttributable reports whether the cause came from a reseller-level
// condition and may therefore be reversed automatically.
func (k CauseKind) IsResellerAttributable() bool {
	return k == CauseQuotaExhausted || k == CauseWindowExpired || k == CauseWalletExhausted
}

// DefaultReason is the reason code recorded when a config is disabled for k.
func (k CauseKind) DefaultReason() string {
	switch k {
	case CauseQuotaExhausted:
		return ReasonResellerQuotaExhausted
	case CauseWindowExpired:
		return ReasonResellerWindowExpired
	case CauseWalletExhausted:
		return ReasonWalletBalanceExhausted
	case CauseManuallyDisabled:
		return ReasonManual
	}
	return ""
}

// RecoveryReason is the reason code recorded when a config disabled for k is
// automatically re-enabled.
func (k CauseKind) RecoveryReason() string {
	if k == CauseWalletExhausted {
		return ReasonWalletRecharged
	}
	return ReasonResellerRecovered
}

// SuspendedStatus is the reseller status a cascade for k moves to.
func (k CauseKind) SuspendedStatus() ResellerStatus {
	if k == CauseWalletExhausted {
		return ResellerStatusSuspendedWallet
	}
	return ResellerStatusSuspended
}
