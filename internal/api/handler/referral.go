package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/criptex_server/internal/api/middleware"
	"github.com/qs3c/criptex_server/internal/model/dto"
	"github.com/qs3c/criptex_server/internal/pkg/response"
	"github.com/qs3c/criptex_server/internal/service"
)

type ReferralHandler struct {
	referralService *service.ReferralService
}

func NewReferralHandler(referralService *service.ReferralService) *ReferralHandler {
	return &ReferralHandler{
		referralService: referralService,
	}
}

// Stats 推荐统计
// GET /api/referral/stats
func (h *ReferralHandler) Stats(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	response.Success(c, h.referralService.Stats(user))
}

// Use 使用推荐码
// POST /api/referral/use/:code
func (h *ReferralHandler) Use(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	referral, err := h.referralService.Redeem(c.Request.Context(), user, strings.TrimSpace(c.Param("code")))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyReferred):
			response.DuplicateError(c, err.Error())
		case errors.Is(err, service.ErrSelfReferral):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrUnknownReferralCode):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, &dto.ReferralUseResponse{
		Message:          "Referral code applied successfully!",
		BonusPredictions: referral.Bonus,
	})
}
