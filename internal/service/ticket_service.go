package service

import (
	"time"

	"github.com/qs3c/criptex_server/config"
	"github.com/qs3c/criptex_server/internal/pkg/jwt"
)

// TicketService 签发和校验 WebSocket 连接票据，API 进程与通知进程共用同一密钥
type TicketService struct {
	cfg *config.JWTConfig
}

func NewTicketService(cfg *config.JWTConfig) *TicketService {
	return &TicketService{cfg: cfg}
}

// IssueTicket 签发短期票据
func (s *TicketService) IssueTicket(userID string) (string, time.Time, error) {
	return jwt.GenerateToken(userID, s.cfg.Secret, s.cfg.TicketTTL())
}

// ResolveTicket 校验票据并返回用户 ID
func (s *TicketService) ResolveTicket(ticket string) (string, error) {
	claims, err := jwt.ParseToken(ticket, s.cfg.Secret)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
