package routes

import (
	"github.com/gin-gonic/gin"

	"panelsync/internal/interfaces/http/handlers"
)

// ConfigRouteConfig holds the configuration for reseller config routes
type ConfigRouteConfig struct {
	Handler *handlers.ConfigHandler
	// RateLimit guards manual actions. Nil disables it.
	RateLimit gin.HandlerFunc
}

// SetupConfigRoutes configures the manual config actions and config reads
func SetupConfigRoutes(engine *gin.Engine, config *ConfigRouteConfig) {
	configs := engine.Group("/api/configs")
	{
		configs.GET("/:id", config.Handler.GetConfig)
		configs.GET("/:id/events", config.Handler.ListEvents)
	}

	actions := withRateLimit(configs, config.RateLimit)
	{
		actions.POST("/:id/sync", config.Handler.SyncConfig)
		actions.POST("/:id/reset", config.Handler.ResetUsage)
		actions.POST("/:id/enable", config.Handler.Enable)
		actions.POST("/:id/disable", config.Handler.Disable)
		actions.PATCH("/:id", config.Handler.UpdateLimits)
		actions.DELETE("/:id", config.Handler.Delete)
	}
}

// withRateLimit returns a sub-group that applies mw, or the group itself
// when mw is nil.
func withRateLimit(group *gin.RouterGroup, mw gin.HandlerFunc) *gin.RouterGroup {
	if mw == nil {
		return group
	}
	limited := group.Group("")
	limited.Use(mw)
	return limited
}
