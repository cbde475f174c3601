package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	settingdto "panelsync/internal/application/setting/dto"
	"panelsync/internal/shared/logger"
	"panelsync/internal/shared/utils"
)

type SettingHandler struct {
	get    enforcementSettingsGetter
	update enforcementSettingsUpdater
	logger logger.Interface
}

func NewSettingHandler(get enforcementSettingsGetter, update enforcementSettingsUpdater, log logger.Interface) *SettingHandler {
	return &SettingHandler{get: get, update: update, logger: log}
}

// GetEnforcement handles GET /api/settings/enforcement
func (h *SettingHandler) GetEnforcement(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", h.get.Execute(c.Request.Context()))
}

// UpdateEnforcement handles PATCH /api/settings/enforcement
func (h *SettingHandler) UpdateEnforcement(c *gin.Context) {
	var req settingdto.UpdateEnforcementSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update enforcement settings", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	if err := h.update.Execute(c.Request.Context(), req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Enforcement settings updated", h.get.Execute(c.Request.Context()))
}
