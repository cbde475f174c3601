// Package bootstrap loads configuration and opens the shared resources every
// command needs.
package bootstrap

import (
	"fmt"

	"gorm.io/gorm"

	"panelsync/internal/infrastructure/config"
	"panelsync/internal/infrastructure/database"
	httpRouter "panelsync/internal/interfaces/http"
	"panelsync/internal/shared/biztime"
	"panelsync/internal/shared/logger"
)

// Runtime holds the loaded configuration, the process logger and the
// database connection.
type Runtime struct {
	Config *config.Config
	Logger logger.Interface
	DB     *gorm.DB
}

// Init loads configuration for env, initializes logging, the business
// timezone and the database.
func Init(env string) (*Runtime, error) {
	cfg, err := config.Load(GinMode(env))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Runtime{
		Config: cfg,
		Logger: log,
		DB:     database.Get(),
	}, nil
}

// Container wires the application on top of the runtime.
func (r *Runtime) Container() (*httpRouter.Container, error) {
	return httpRouter.NewContainer(r.DB, r.Config, r.Logger)
}

// Close releases the database and flushes the logger.
func (r *Runtime) Close() {
	if err := database.Close(); err != nil {
		r.Logger.Warnw("failed to close database", "error", err)
	}
	_ = logger.Sync()
}

// GinMode maps a deployment environment name to a gin mode.
func GinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
