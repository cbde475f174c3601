package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	sharedConfig "panelsync/internal/shared/config"
)

type Config struct {
	Server      sharedConfig.ServerConfig      `mapstructure:"server"`
	Database    sharedConfig.DatabaseConfig    `mapstructure:"database"`
	Logger      sharedConfig.LoggerConfig      `mapstructure:"logger"`
	Redis       sharedConfig.RedisConfig       `mapstructure:"redis"`
	Scheduler   sharedConfig.SchedulerConfig   `mapstructure:"scheduler"`
	Enforcement sharedConfig.EnforcementConfig `mapstructure:"enforcement"`
	Retry       sharedConfig.RetryConfig       `mapstructure:"retry"`
	Panel       sharedConfig.PanelConfig       `mapstructure:"panel"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables. A missing
// config file is not an error; defaults and PANELSYNC_* variables apply.
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("PANELSYNC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(&config); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func validate(c *Config) error {
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	if c.Enforcement.ConfigGracePercent < 0 || c.Enforcement.ResellerGracePercent < 0 {
		return fmt.Errorf("grace percent cannot be negative")
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.timezone", "Asia/Tehran")
	viper.SetDefault("server.rate_limit_per_minute", 120)

	// Database defaults
	viper.SetDefault("database.driver", "mysql")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "panelsync")
	viper.SetDefault("database.path", "panelsync.db")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 50)
	viper.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// Redis defaults
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Scheduler defaults
	viper.SetDefault("scheduler.usage_sync_enabled", true)
	viper.SetDefault("scheduler.usage_sync_interval", time.Minute)
	viper.SetDefault("scheduler.time_window_enabled", true)
	viper.SetDefault("scheduler.time_window_interval", time.Minute)
	viper.SetDefault("scheduler.reactivation_enabled", true)
	viper.SetDefault("scheduler.reactivation_interval", time.Minute)
	viper.SetDefault("scheduler.wallet_billing_enabled", false)
	viper.SetDefault("scheduler.wallet_billing_interval", 5*time.Minute)
	viper.SetDefault("scheduler.job_timeout", 10*time.Minute)

	// Enforcement defaults: 2% or 50MB, whichever is larger
	viper.SetDefault("enforcement.config_grace_percent", 2.0)
	viper.SetDefault("enforcement.config_grace_bytes", 50*1024*1024)
	viper.SetDefault("enforcement.reseller_grace_percent", 2.0)
	viper.SetDefault("enforcement.reseller_grace_bytes", 50*1024*1024)
	viper.SetDefault("enforcement.allow_config_overrun", false)
	viper.SetDefault("enforcement.expiry_grace_minutes", 0)
	viper.SetDefault("enforcement.wallet_suspension_threshold", 0)
	viper.SetDefault("enforcement.default_wallet_price_per_gb", 0)
	viper.SetDefault("enforcement.throttle_interval", 333*time.Millisecond)

	// Retry defaults
	viper.SetDefault("retry.max_attempts", 3)
	viper.SetDefault("retry.backoff", []time.Duration{time.Second, 3 * time.Second})

	// Panel client defaults
	viper.SetDefault("panel.request_timeout", 15*time.Second)
	viper.SetDefault("panel.token_ttl", 30*time.Minute)
}
