package http

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	resellerServices "panelsync/internal/application/reseller/services"
	settingUsecases "panelsync/internal/application/setting/usecases"
	"panelsync/internal/infrastructure/cache"
	"panelsync/internal/infrastructure/config"
	"panelsync/internal/infrastructure/panelclient"
	"panelsync/internal/interfaces/http/middleware"
	shareddb "panelsync/internal/shared/db"
	"panelsync/internal/shared/logger"
)

const redisPingTimeout = 5 * time.Second

// appServices holds the domain services shared by the use cases.
type appServices struct {
	settings     *settingUsecases.EnforcementSettingsProvider
	factory      *panelclient.Factory
	resolver     *resellerServices.PanelResolver
	retry        *resellerServices.RetryExecutor
	recorder     *resellerServices.AuditRecorder
	state        *resellerServices.ConfigStateService
	aggregator   *resellerServices.UsageAggregator
	suspension   *resellerServices.SuspensionService
	reactivation *resellerServices.ReactivationService
	txManager    *shareddb.TransactionManager
}

// initInfrastructure connects Redis when enabled and builds the repositories.
func (c *Container) initInfrastructure() error {
	if c.cfg.Redis.Enabled {
		client, err := initRedis(c.cfg, c.log)
		if err != nil {
			return err
		}
		c.redis = client
		if c.cfg.Server.RateLimitPerMinute > 0 {
			c.rateLimiter = middleware.NewRateLimiter(client, c.cfg.Server.RateLimitPerMinute, time.Minute, c.log)
		}
	}

	c.repos = newRepositories(c.db, c.log)
	return nil
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())
	return redisClient, nil
}

func (c *Container) initServices() {
	cfg := c.cfg
	log := c.log
	repos := c.repos

	var tokens panelclient.TokenStore = panelclient.NewMemoryTokenStore()
	if c.redis != nil {
		tokens = cache.NewPanelTokenStore(c.redis)
	}

	factory := panelclient.NewFactory(tokens, cfg.Panel.RequestTimeout, cfg.Panel.TokenTTL, log.Named("panelclient"))
	resolver := resellerServices.NewPanelResolver(repos.panelRepo, factory)
	retry := resellerServices.NewRetryExecutor(cfg.Retry.MaxAttempts, cfg.Retry.Backoff, log)
	recorder := resellerServices.NewAuditRecorder(repos.eventRepo, repos.auditRepo, log)
	state := resellerServices.NewConfigStateService(repos.configRepo, resolver, retry, recorder, log)
	throttle := resellerServices.NewThrottleFactory(cfg.Enforcement.ThrottleInterval)

	c.svcs = &appServices{
		settings:     settingUsecases.NewEnforcementSettingsProvider(repos.settingRepo, cfg.Enforcement, log),
		factory:      factory,
		resolver:     resolver,
		retry:        retry,
		recorder:     recorder,
		state:        state,
		aggregator:   resellerServices.NewUsageAggregator(repos.resellerRepo, repos.configRepo, log),
		suspension:   resellerServices.NewSuspensionService(repos.resellerRepo, repos.configRepo, state, recorder, throttle, log),
		reactivation: resellerServices.NewReactivationService(repos.resellerRepo, repos.configRepo, state, recorder, throttle, log),
		txManager:    shareddb.NewTransactionManager(c.db),
	}
}
