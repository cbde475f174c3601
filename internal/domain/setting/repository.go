package setting

import "context"

// Repository stores runtime overrides of the configured defaults, keyed by
// category and setting key.
type Repository interface {
	// GetByKey returns ErrSettingNotFound when no override exists.
	GetByKey(ctx context.Context, category, key string) (*SystemSetting, error)
	GetByCategory(ctx context.Context, category string) ([]*SystemSetting, error)
	// Upsert writes the override, replacing any row with the same key.
	Upsert(ctx context.Context, setting *SystemSetting) error
	// Delete drops an override so the configured default applies again.
	Delete(ctx context.Context, category, key string) error
}
