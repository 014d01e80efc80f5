package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/criptex_server/internal/model"
	"github.com/qs3c/criptex_server/internal/pkg/response"
	"github.com/qs3c/criptex_server/internal/service"
)

const (
	UserKey = "user"
)

// SessionResolver 由会话令牌解析当前用户
type SessionResolver interface {
	Resolve(token string, now time.Time) (*model.User, error)
}

// Auth 会话认证中间件，先读 Cookie，再读 Authorization: Bearer
func Auth(resolver SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolver.Resolve(tokenFromRequest(c, cookieName), time.Now().UTC())
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				response.AuthError(c, "")
			} else {
				response.ServerError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

// OptionalAuth 可选认证中间件（不强制要求登录）
func OptionalAuth(resolver SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c, cookieName)
		if token == "" {
			c.Next()
			return
		}

		if user, err := resolver.Resolve(token, time.Now().UTC()); err == nil {
			c.Set(UserKey, user)
		}

		c.Next()
	}
}

func tokenFromRequest(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetUser 从上下文获取当前用户
func GetUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok && user != nil
}
