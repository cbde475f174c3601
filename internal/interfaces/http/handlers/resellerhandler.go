package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"panelsync/internal/application/reseller/dto"
	"panelsync/internal/interfaces/http/middleware"
	"panelsync/internal/shared/logger"
	"panelsync/internal/shared/utils"
)

type ResellerHandler struct {
	syncer      resellerSyncer
	reactivator resellerReactivator
	quota       resellerQuotaAdjuster
	queries     resellerQueries
	logger      logger.Interface
}

func NewResellerHandler(
	syncer resellerSyncer,
	reactivator resellerReactivator,
	quota resellerQuotaAdjuster,
	queries resellerQueries,
	log logger.Interface,
) *ResellerHandler {
	return &ResellerHandler{
		syncer:      syncer,
		reactivator: reactivator,
		quota:       quota,
		queries:     queries,
		logger:      log,
	}
}

// ListResellers handles GET /api/resellers?status=&type=&page=&page_size=
func (h *ResellerHandler) ListResellers(c *gin.Context) {
	pagination := utils.ParsePagination(c)
	page, err := h.queries.ListResellers(c.Request.Context(), dto.ListResellersRequest{
		Status:   c.Query("status"),
		Type:     c.Query("type"),
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListSuccessResponse(c, page.Items, page.Total, pagination.Page, pagination.PageSize)
}

func (h *ResellerHandler) GetReseller(c *gin.Context) {
	resellerID, err := utils.ParseIDParam(c, "id", "reseller")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.queries.GetReseller(c.Request.Context(), resellerID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *ResellerHandler) ListConfigs(c *gin.Context) {
	resellerID, err := utils.ParseIDParam(c, "id", "reseller")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	configs, err := h.queries.ListResellerConfigs(c.Request.Context(), resellerID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", configs)
}

func (h *ResellerHandler) ListAudit(c *gin.Context) {
	resellerID, err := utils.ParseIDParam(c, "id", "reseller")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	pagination := utils.ParsePagination(c)
	page, err := h.queries.ListResellerAudit(c.Request.Context(), resellerID, pagination.Page, pagination.PageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListSuccessResponse(c, page.Items, page.Total, pagination.Page, pagination.PageSize)
}

// Sync handles POST /api/resellers/:id/sync
func (h *ResellerHandler) Sync(c *gin.Context) {
	resellerID, err := utils.ParseIDParam(c, "id", "reseller")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	report, err := h.syncer.SyncReseller(c.Request.Context(), resellerID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	warning := ""
	if report.ConfigsFailed > 0 {
		warning = "some configs could not be synced"
	}
	utils.WarningResponse(c, "Reseller synced", warning, report)
}

// Reactivate handles POST /api/resellers/:id/reactivate
func (h *ResellerHandler) Reactivate(c *gin.Context) {
	resellerID, err := utils.ParseIDParam(c, "id", "reseller")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.reactivator.ReactivateOne(c.Request.Context(), resellerID, middleware.ActorFromContext(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	actionResponse(c, "Reseller reactivated", result)
}

// AdjustQuota handles PATCH /api/resellers/:id/quota
func (h *ResellerHandler) AdjustQuota(c *gin.Context) {
	resellerID, err := utils.ParseIDParam(c, "id", "reseller")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.AdjustResellerQuotaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for adjust reseller quota",
			"reseller_id", resellerID,
			"error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.quota.Execute(c.Request.Context(), resellerID, req, middleware.ActorFromContext(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	actionResponse(c, "Reseller quota adjusted", result)
}
