package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"panelsync/internal/application/reseller/dto"
	"panelsync/internal/interfaces/http/middleware"
	"panelsync/internal/shared/logger"
	"panelsync/internal/shared/utils"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 500
)

// ConfigHandler serves the manual actions on a single config.
type ConfigHandler struct {
	syncer  configSyncer
	reset   configUsageResetter
	status  configStatusSetter
	limits  configLimitsUpdater
	deleter configDeleter
	queries configQueries
	logger  logger.Interface
}

func NewConfigHandler(
	syncer configSyncer,
	reset configUsageResetter,
	status configStatusSetter,
	limits configLimitsUpdater,
	deleter configDeleter,
	queries configQueries,
	log logger.Interface,
) *ConfigHandler {
	return &ConfigHandler{
		syncer:  syncer,
		reset:   reset,
		status:  status,
		limits:  limits,
		deleter: deleter,
		queries: queries,
		logger:  log,
	}
}

func (h *ConfigHandler) GetConfig(c *gin.Context) {
	configID, err := utils.ParseIDParam(c, "id", "config")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.queries.GetConfig(c.Request.Context(), configID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// SyncConfig handles POST /api/configs/:id/sync
func (h *ConfigHandler) SyncConfig(c *gin.Context) {
	configID, err := utils.ParseIDParam(c, "id", "config")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.syncer.SyncConfig(c.Request.Context(), configID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	actionResponse(c, "Config synced", result)
}

// ResetUsage handles POST /api/configs/:id/reset
func (h *ConfigHandler) ResetUsage(c *gin.Context) {
	configID, err := utils.ParseIDParam(c, "id", "config")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.reset.Execute(c.Request.Context(), configID, middleware.ActorFromContext(c))
	if err != nil {
		h.logger.Warnw("config usage reset failed", "config_id", configID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}
	actionResponse(c, "Config usage reset", result)
}

// Enable handles POST /api/configs/:id/enable
func (h *ConfigHandler) Enable(c *gin.Context) {
	configID, err := utils.ParseIDParam(c, "id", "config")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.status.Enable(c.Request.Context(), configID, middleware.ActorFromContext(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	actionResponse(c, "Config enabled", result)
}

// Disable handles POST /api/configs/:id/disable
func (h *ConfigHandler) Disable(c *gin.Context) {
	configID, err := utils.ParseIDParam(c, "id", "config")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.status.Disable(c.Request.Context(), configID, middleware.ActorFromContext(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	actionResponse(c, "Config disabled", result)
}

// UpdateLimits handles PATCH /api/configs/:id
func (h *ConfigHandler) UpdateLimits(c *gin.Context) {
	configID, err := utils.ParseIDParam(c, "id", "config")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.UpdateConfigLimitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update config limits",
			"config_id", configID,
			"error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.limits.Execute(c.Request.Context(), configID, req, middleware.ActorFromContext(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	actionResponse(c, "Config updated", result)
}

// Delete handles DELETE /api/configs/:id
func (h *ConfigHandler) Delete(c *gin.Context) {
	configID, err := utils.ParseIDParam(c, "id", "config")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.deleter.Execute(c.Request.Context(), configID, middleware.ActorFromContext(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	actionResponse(c, "Config deleted", result)
}

// ListEvents handles GET /api/configs/:id/events
func (h *ConfigHandler) ListEvents(c *gin.Context) {
	configID, err := utils.ParseIDParam(c, "id", "config")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	limit := utils.ParseLimit(c, defaultEventLimit, maxEventLimit)
	events, err := h.queries.ListConfigEvents(c.Request.Context(), configID, limit)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", events)
}

// actionResponse writes a manual action result, lifting its warning into
// the envelope.
func actionResponse(c *gin.Context, message string, result *dto.ActionResult) {
	if result == nil {
		utils.SuccessResponse(c, http.StatusOK, message, nil)
		return
	}
	utils.WarningResponse(c, message, result.Warning, result)
}
