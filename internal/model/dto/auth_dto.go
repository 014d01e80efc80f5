package dto

import (
	"github.com/qs3c/criptex_server/internal/model"
)

// CreateSessionRequest 会话交换请求
type CreateSessionRequest struct {
	SessionID string `json:"session_id"`
}

// SessionResponse 会话交换响应
type SessionResponse struct {
	User         *model.User `json:"user"`
	SessionToken string      `json:"session_token"`
}

// TicketResponse WebSocket 连接票据
type TicketResponse struct {
	Ticket    string `json:"ticket"`
	ExpiresAt string `json:"expires_at"`
}
