package handler

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/qs3c/criptex_server/internal/pkg/response"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health 存活检查，数据库不可用时返回 500
// GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		response.ServerError(c, "database unavailable")
		return
	}

	response.Success(c, gin.H{"status": "ok"})
}
