package testutil

import (
	"context"
	"sync"

	"panelsync/internal/domain/reseller"
	"panelsync/internal/domain/setting"
)

// StaticSettings is a fixed enforcement policy that tests can change between
// passes.
type StaticSettings struct {
	mu       sync.Mutex
	settings reseller.EnforcementSettings
}

var _ setting.EnforcementProvider = (*StaticSettings)(nil)

func NewStaticSettings() *StaticSettings {
	return &StaticSettings{settings: reseller.DefaultEnforcementSettings()}
}

// Update changes the policy returned to later passes.
func (s *StaticSettings) Update(fn func(*reseller.EnforcementSettings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.settings)
}

func (s *StaticSettings) GetEnforcementSettings(ctx context.Context) reseller.EnforcementSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *StaticSettings) Describe(ctx context.Context) map[string]setting.ConfigValue {
	return map[string]setting.ConfigValue{}
}
