package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"panelsync/internal/shared/logger"
	"panelsync/internal/shared/utils"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck is one named dependency probe.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthHandler struct {
	checks []HealthCheck
	logger logger.Interface
}

func NewHealthHandler(log logger.Interface, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, logger: log}
}

// Healthz handles GET /healthz
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := make(map[string]string, len(h.checks))
	healthy := true
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			h.logger.Warnw("health check failed", "check", check.Name, "error", err)
			status[check.Name] = "down"
			healthy = false
			continue
		}
		status[check.Name] = "up"
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, utils.APIResponse{
			Success: false,
			Message: "unhealthy",
			Data:    status,
		})
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "ok", status)
}
