package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/criptex_server/internal/api/middleware"
	"github.com/qs3c/criptex_server/internal/model/dto"
	"github.com/qs3c/criptex_server/internal/pkg/idempotency"
	"github.com/qs3c/criptex_server/internal/pkg/response"
	"github.com/qs3c/criptex_server/internal/service"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type PredictionHandler struct {
	predictionService *service.PredictionService
}

func NewPredictionHandler(predictionService *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{
		predictionService: predictionService,
	}
}

// List 当前用户的预测列表
// GET /api/predictions
func (h *PredictionHandler) List(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	predictions, err := h.predictionService.List(user.ID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, predictions)
}

// Create 提交预测，消耗一次免费预测
// POST /api/predictions
func (h *PredictionHandler) Create(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreatePredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	prediction, err := h.predictionService.Submit(c.Request.Context(), user, &req, key)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientQuota):
			response.QuotaError(c, err.Error())
		case errors.Is(err, service.ErrRequestInFlight):
			response.ConflictError(c, err.Error())
		case errors.Is(err, idempotency.ErrBadKey):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, prediction)
}
