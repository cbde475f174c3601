package routes

import (
	"github.com/gin-gonic/gin"

	"panelsync/internal/interfaces/http/handlers"
)

// ResellerRouteConfig holds the configuration for reseller routes
type ResellerRouteConfig struct {
	Handler      *handlers.ResellerHandler
	Wallet       *handlers.WalletHandler
	Provisioning *handlers.ProvisioningHandler
	RateLimit    gin.HandlerFunc
}

// SetupResellerRoutes configures reseller, wallet and provisioning routes
func SetupResellerRoutes(engine *gin.Engine, config *ResellerRouteConfig) {
	resellers := engine.Group("/api/resellers")
	{
		resellers.GET("", config.Handler.ListResellers)
		resellers.GET("/:id", config.Handler.GetReseller)
		resellers.GET("/:id/configs", config.Handler.ListConfigs)
		resellers.GET("/:id/audit", config.Handler.ListAudit)
	}

	actions := withRateLimit(resellers, config.RateLimit)
	{
		actions.POST("", config.Provisioning.CreateReseller)
		actions.POST("/:id/sync", config.Handler.Sync)
		actions.POST("/:id/reactivate", config.Handler.Reactivate)
		actions.PATCH("/:id/quota", config.Handler.AdjustQuota)
	}

	wallet := withRateLimit(engine.Group("/api/wallet"), config.RateLimit)
	wallet.POST("/topups", config.Wallet.TopUp)

	panels := engine.Group("/api/panels")
	{
		panels.GET("", config.Provisioning.ListPanels)
		panels.POST("", config.Provisioning.RegisterPanel)
	}

	// Attaching does not touch the panel, so it is not rate limited.
	engine.POST("/api/configs", config.Provisioning.AttachConfig)
}
