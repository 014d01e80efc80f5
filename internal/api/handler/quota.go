package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/criptex_server/internal/api/middleware"
	"github.com/qs3c/criptex_server/internal/model/dto"
	"github.com/qs3c/criptex_server/internal/pkg/response"
	"github.com/qs3c/criptex_server/internal/service"
)

type QuotaHandler struct {
	quotaService *service.QuotaService
}

func NewQuotaHandler(quotaService *service.QuotaService) *QuotaHandler {
	return &QuotaHandler{
		quotaService: quotaService,
	}
}

// ClaimBonus 领取每日奖励
// POST /api/bonus/claim
func (h *QuotaHandler) ClaimBonus(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	balance, err := h.quotaService.ClaimDailyBonus(c.Request.Context(), user.ID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBonusAlreadyClaimed):
			response.DuplicateError(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.AuthError(c, "")
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, &dto.BonusClaimResponse{
		Message:         "Daily bonus claimed!",
		FreePredictions: balance,
	})
}
