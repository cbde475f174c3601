package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Mode     string `mapstructure:"mode"`
	Timezone string `mapstructure:"timezone"`
	// RateLimitPerMinute caps manual actions per client IP. It needs Redis;
	// zero disables it.
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SchedulerConfig toggles and paces the reconciliation jobs.
type SchedulerConfig struct {
	UsageSyncEnabled      bool          `mapstructure:"usage_sync_enabled"`
	UsageSyncInterval     time.Duration `mapstructure:"usage_sync_interval"`
	TimeWindowEnabled     bool          `mapstructure:"time_window_enabled"`
	TimeWindowInterval    time.Duration `mapstructure:"time_window_interval"`
	ReactivationEnabled   bool          `mapstructure:"reactivation_enabled"`
	ReactivationInterval  time.Duration `mapstructure:"reactivation_interval"`
	WalletBillingEnabled  bool          `mapstructure:"wallet_billing_enabled"`
	WalletBillingInterval time.Duration `mapstructure:"wallet_billing_interval"`
	JobTimeout            time.Duration `mapstructure:"job_timeout"`
}

// EnforcementConfig holds the default policy values. Rows in the settings
// table override them at runtime.
type EnforcementConfig struct {
	ConfigGracePercent        float64       `mapstructure:"config_grace_percent"`
	ConfigGraceBytes          int64         `mapstructure:"config_grace_bytes"`
	ResellerGracePercent      float64       `mapstructure:"reseller_grace_percent"`
	ResellerGraceBytes        int64         `mapstructure:"reseller_grace_bytes"`
	AllowConfigOverrun        bool          `mapstructure:"allow_config_overrun"`
	ExpiryGraceMinutes        int           `mapstructure:"expiry_grace_minutes"`
	WalletSuspensionThreshold int64         `mapstructure:"wallet_suspension_threshold"`
	DefaultWalletPricePerGB   int64         `mapstructure:"default_wallet_price_per_gb"`
	ThrottleInterval          time.Duration `mapstructure:"throttle_interval"`
}

type RetryConfig struct {
	MaxAttempts int             `mapstructure:"max_attempts"`
	Backoff     []time.Duration `mapstructure:"backoff"`
}

type PanelConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
}
