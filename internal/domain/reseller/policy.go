package reseller

import "panelsync/internal/shared/constants"

// GracePolicy is the allowance above a hard traffic limit before enforcement
// fires: the larger of Percent of the limit and a fixed byte count.
type GracePolicy struct {
	Percent float64
	Bytes   int64
}

// Threshold returns the highest usage still tolerated for limit.
func (g GracePolicy) Threshold(limit int64) int64 {
	allowance := int64(float64(limit) * g.Percent / 100)
	if g.Bytes > allowance {
		allowance = g.Bytes
	}
	return limit + allowance
}

// Exceeded reports whether used is strictly above the grace threshold.
// Usage exactly at the limit never exceeds.
func (g GracePolicy) Exceeded(used, limit int64) bool {
	return used > g.Threshold(limit)
}

// EnforcementSettings is the policy input to every evaluation. It is passed
// explicitly so that policy checks stay pure.
type EnforcementSettings struct {
	ConfigGrace               GracePolicy
	ResellerGrace             GracePolicy
	AllowConfigOverrun        bool
	ExpiryGraceMinutes        int
	WalletSuspensionThreshold int64
	DefaultWalletPricePerGB   int64
}

// DefaultEnforcementSettings returns 2% / 50MB grace on both tiers, per-config
// enforcement on, no expiry grace and a zero wallet threshold.
func DefaultEnforcementSettings() EnforcementSettings {
	grace := GracePolicy{Percent: 2, Bytes: 50 * constants.MiB}
	return EnforcementSettings{
		ConfigGrace:   grace,
		ResellerGrace: grace,
	}
}
