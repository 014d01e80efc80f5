package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/criptex_server/config"
	"github.com/qs3c/criptex_server/internal/api/middleware"
	"github.com/qs3c/criptex_server/internal/model/dto"
	"github.com/qs3c/criptex_server/internal/pkg/response"
	"github.com/qs3c/criptex_server/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	cfg         config.AuthConfig
}

func NewAuthHandler(authService *service.AuthService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// CreateSession 用身份提供方的 session id 换取会话
// POST /api/auth/session
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, service.ErrSessionIDRequired.Error())
		return
	}

	resp, err := h.authService.CreateSession(c.Request.Context(), req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionIDRequired):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrInvalidSession):
			response.AuthError(c, err.Error())
		case errors.Is(err, service.ErrIdentityUnavailable):
			response.UpstreamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	h.setSessionCookie(c, resp.SessionToken, int(h.cfg.SessionTTL().Seconds()))
	response.Success(c, resp)
}

// Logout 删除当前用户的全部会话，未登录时也返回成功
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if user, ok := middleware.GetUser(c); ok {
		if err := h.authService.Logout(c.Request.Context(), user.ID); err != nil {
			response.ServerError(c, "")
			return
		}
	}

	h.setSessionCookie(c, "", -1)
	response.SuccessWithMessage(c, "Logged out successfully", nil)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(h.cfg.CookieName, value, maxAge, "/", "", h.cfg.CookieSecure, true)
}
