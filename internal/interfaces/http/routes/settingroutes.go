package routes

import (
	"github.com/gin-gonic/gin"

	"panelsync/internal/interfaces/http/handlers"
)

// SettingRouteConfig holds the configuration for setting routes
type SettingRouteConfig struct {
	Handler *handlers.SettingHandler
}

// SetupSettingRoutes configures the enforcement policy routes
func SetupSettingRoutes(engine *gin.Engine, config *SettingRouteConfig) {
	settings := engine.Group("/api/settings")
	{
		settings.GET("/enforcement", config.Handler.GetEnforcement)
		settings.PATCH("/enforcement", config.Handler.UpdateEnforcement)
	}
}
