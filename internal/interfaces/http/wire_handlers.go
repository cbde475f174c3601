package http

import (
	"panelsync/internal/interfaces/http/handlers"
)

type allHandlers struct {
	config       *handlers.ConfigHandler
	reseller     *handlers.ResellerHandler
	wallet       *handlers.WalletHandler
	provisioning *handlers.ProvisioningHandler
	setting      *handlers.SettingHandler
	health       *handlers.HealthHandler
}

func (c *Container) initHandlers() {
	log := c.log
	ucs := c.ucs

	checks := []handlers.HealthCheck{{Name: "database", Check: c.pingDatabase}}
	if c.redis != nil {
		checks = append(checks, handlers.HealthCheck{Name: "redis", Check: c.pingRedis})
	}

	c.hdlrs = &allHandlers{
		config: handlers.NewConfigHandler(
			ucs.ManualSync, ucs.ResetUsage, ucs.SetStatus, ucs.UpdateLimits, ucs.DeleteConfig, ucs.Queries, log,
		),
		reseller:     handlers.NewResellerHandler(ucs.ManualSync, ucs.Reactivation, ucs.AdjustQuota, ucs.Queries, log),
		wallet:       handlers.NewWalletHandler(ucs.TopUpWallet, log),
		provisioning: handlers.NewProvisioningHandler(ucs.Provisioning, log),
		setting:      handlers.NewSettingHandler(ucs.GetSettings, ucs.UpdateSettings, log),
		health:       handlers.NewHealthHandler(log, checks...),
	}
}
