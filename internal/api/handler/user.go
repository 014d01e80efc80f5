package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/criptex_server/internal/api/middleware"
	"github.com/qs3c/criptex_server/internal/pkg/response"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me 获取当前用户信息
// GET /api/auth/me
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	response.Success(c, user)
}
