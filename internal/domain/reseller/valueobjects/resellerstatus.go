package valueobjects

type ResellerStatus string

const (
	ResellerStatusActive          ResellerStatus = "active"
	ResellerStatusSuspended       ResellerStatus = "suspended"
	ResellerStatusSuspendedWallet ResellerStatus = "suspended_wallet"
)

func (s ResellerStatus) String() string {
	return string(s)
}

func (s ResellerStatus) IsSuspended() bool {
	return s == ResellerStatusSuspended || s == ResellerStatusSuspendedWallet
}

func (s ResellerStatus) CanTransitionTo(target ResellerStatus) bool {
	switch s {
	case ResellerStatusActive:
		return target.IsSuspended()
	case ResellerStatusSuspended, ResellerStatusSuspendedWallet:
		return target == ResellerStatusActive
	}
	return false
}

var ValidResellerStatuses = map[ResellerStatus]bool{
	ResellerStatusActive:          true,
	ResellerStatusSuspended:       true,
	ResellerStatusSuspendedWallet: true,
}

type ResellerType string

const (
	ResellerTypeTraffic ResellerType = "traffic"
	ResellerTypePlan    ResellerType = "plan"
	ResellerTypeWallet  ResellerType = "wallet"
)

func (t ResellerType) String() string {
	return string(t)
}

// HasTrafficQuota reports whether the reseller is limited by traffic_total_bytes.
// Wallet resellers pay per GB instead.
func (t ResellerType) HasTrafficQuota() bool {
	return t != ResellerTypeWallet
}

var ValidResellerTypes = map[ResellerType]bool{
	ResellerTypeTraffic: true,
	ResellerTypePlan:    true,
	ResellerTypeWallet:  true,
}
