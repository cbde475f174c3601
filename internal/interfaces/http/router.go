package http

import (
	"github.com/gin-gonic/gin"

	"panelsync/internal/interfaces/http/middleware"
	"panelsync/internal/interfaces/http/routes"
)

func (c *Container) setupRoutes() {
	engine := c.engine
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(c.log),
		middleware.Recovery(c.log),
		middleware.Actor(),
	)

	engine.GET("/healthz", c.hdlrs.health.Healthz)

	var limit gin.HandlerFunc
	if c.rateLimiter != nil {
		limit = c.rateLimiter.Limit()
	}

	routes.SetupConfigRoutes(engine, &routes.ConfigRouteConfig{
		Handler:   c.hdlrs.config,
		RateLimit: limit,
	})

	routes.SetupResellerRoutes(engine, &routes.ResellerRouteConfig{
		Handler:      c.hdlrs.reseller,
		Wallet:       c.hdlrs.wallet,
		Provisioning: c.hdlrs.provisioning,
		RateLimit:    limit,
	})

	routes.SetupSettingRoutes(engine, &routes.SettingRouteConfig{
		Handler: c.hdlrs.setting,
	})
}
