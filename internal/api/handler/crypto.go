package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/criptex_server/internal/pkg/response"
	"github.com/qs3c/criptex_server/internal/service"
)

type CryptoHandler struct {
	marketService *service.MarketService
}

func NewCryptoHandler(marketService *service.MarketService) *CryptoHandler {
	return &CryptoHandler{
		marketService: marketService,
	}
}

// Prices 热门币种行情
// GET /api/crypto/prices?currency=usd
func (h *CryptoHandler) Prices(c *gin.Context) {
	response.Success(c, h.marketService.Prices(c.Request.Context(), c.Query("currency")))
}

// Chart K 线数据
// GET /api/crypto/chart/:symbol?timeframe=1h&currency=usd
func (h *CryptoHandler) Chart(c *gin.Context) {
	chart := h.marketService.Chart(
		c.Request.Context(),
		c.Param("symbol"),
		c.DefaultQuery("timeframe", "1h"),
		c.Query("currency"),
	)
	response.Success(c, chart)
}
