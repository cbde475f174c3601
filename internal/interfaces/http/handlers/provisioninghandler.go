package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"panelsync/internal/application/reseller/dto"
	"panelsync/internal/shared/logger"
	"panelsync/internal/shared/utils"
)

// ProvisioningHandler registers panels, resellers and configs.
type ProvisioningHandler struct {
	provisioner provisioner
	logger      logger.Interface
}

func NewProvisioningHandler(p provisioner, log logger.Interface) *ProvisioningHandler {
	return &ProvisioningHandler{provisioner: p, logger: log}
}

func (h *ProvisioningHandler) RegisterPanel(c *gin.Context) {
	var req dto.RegisterPanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for register panel", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.provisioner.RegisterPanel(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, result, "Panel registered")
}

func (h *ProvisioningHandler) ListPanels(c *gin.Context) {
	panels, err := h.provisioner.ListPanels(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", panels)
}

func (h *ProvisioningHandler) CreateReseller(c *gin.Context) {
	var req dto.CreateResellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create reseller", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.provisioner.CreateReseller(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, result, "Reseller created")
}

func (h *ProvisioningHandler) AttachConfig(c *gin.Context) {
	var req dto.AttachConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for attach config", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.provisioner.AttachConfig(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, result, "Config attached")
}
