package setting

import (
	"context"

	"panelsync/internal/domain/reseller"
)

// ConfigValue is a resolved value with its source: "database" or "config".
type ConfigValue struct {
	Value  any
	Source string
}

// EnforcementProvider resolves the policy for one enforcement pass. Database
// overrides take precedence over the static configuration.
type EnforcementProvider interface {
	GetEnforcementSettings(ctx context.Context) reseller.EnforcementSettings

	// Describe returns every enforcement key with its effective value and source.
	Describe(ctx context.Context) map[string]ConfigValue
}
