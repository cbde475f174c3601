package http

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"panelsync/internal/infrastructure/config"
	"panelsync/internal/infrastructure/scheduler"
	"panelsync/internal/interfaces/http/middleware"
	"panelsync/internal/shared/logger"
)

// Container holds all infrastructure components, repositories, use cases,
// handlers and the scheduler. The API server and the worker build the same
// container and use different parts of it.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	svcs  *appServices
	ucs   *UseCases
	hdlrs *allHandlers

	rateLimiter      *middleware.RateLimiter
	schedulerManager *scheduler.SchedulerManager
}

// NewContainer wires every component. Redis is optional; without it panel
// tokens stay process-local and manual actions are not rate limited.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.initServices()
	c.initUseCases()
	c.initHandlers()
	c.setupRoutes()

	return c, nil
}

// Engine returns the gin engine with all routes registered.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// UseCases exposes the use cases to the CLI.
func (c *Container) UseCases() *UseCases {
	return c.ucs
}

// StartScheduler registers the enabled reconciliation jobs and starts them.
func (c *Container) StartScheduler() ([]string, error) {
	manager, err := scheduler.NewSchedulerManager(c.log)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	names, err := manager.RegisterReconciliationJobs(c.cfg.Scheduler, c.reconciliationJobs())
	if err != nil {
		_ = manager.Stop()
		return nil, err
	}
	manager.Start()
	c.schedulerManager = manager
	return names, nil
}

// Shutdown stops the scheduler and releases Redis. The database is owned by
// the caller.
func (c *Container) Shutdown() {
	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Warnw("failed to stop scheduler", "error", err)
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}

func (c *Container) pingDatabase(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Container) pingRedis(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}
