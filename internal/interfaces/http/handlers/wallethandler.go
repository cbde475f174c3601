package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"panelsync/internal/application/reseller/dto"
	"panelsync/internal/interfaces/http/middleware"
	"panelsync/internal/shared/logger"
	"panelsync/internal/shared/utils"
)

type WalletHandler struct {
	topUp  walletTopUper
	logger logger.Interface
}

func NewWalletHandler(topUp walletTopUper, log logger.Interface) *WalletHandler {
	return &WalletHandler{topUp: topUp, logger: log}
}

// TopUp handles POST /api/wallet/topups. The payload is a payment the
// gateway has already verified; replays of the same reference are no-ops.
func (h *WalletHandler) TopUp(c *gin.Context) {
	var req dto.TopUpWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for wallet top-up", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.topUp.Execute(c.Request.Context(), req, middleware.ActorFromContext(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.AlreadyComplete {
		utils.SuccessResponse(c, http.StatusOK, "Top-up already applied", result)
		return
	}
	utils.CreatedResponse(c, result, "Wallet topped up")
}
