package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/qs3c/criptex_server/internal/api/middleware"
	"github.com/qs3c/criptex_server/internal/pkg/logging"
	"github.com/qs3c/criptex_server/internal/pkg/response"
	"github.com/qs3c/criptex_server/internal/pkg/ws"
)

// TicketIssuer 签发与校验 WebSocket 连接票据
type TicketIssuer interface {
	IssueTicket(userID string) (string, time.Time, error)
	ResolveTicket(ticket string) (string, error)
}

type WebSocketHandler struct {
	hub      *ws.Hub
	tickets  TicketIssuer
	upgrader websocket.Upgrader
	logger   logging.Logger
}

// NewWebSocketHandler allowedOrigins 为空或包含 * 时不校验 Origin
func NewWebSocketHandler(hub *ws.Hub, tickets TicketIssuer, allowedOrigins []string, logger logging.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:     hub,
		tickets: tickets,
		upgrader: websocket.Upgrader{
			CheckOrigin:     checkOrigin(allowedOrigins),
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.With("component", "ws"),
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// Ticket 签发短期连接票据
// GET /api/ws/ticket
func (h *WebSocketHandler) Ticket(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	ticket, expiresAt, err := h.tickets.IssueTicket(user.ID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{
		"ticket":     ticket,
		"expires_at": expiresAt,
	})
}

// Handle WebSocket 连接处理
// GET /ws?ticket=xxx
func (h *WebSocketHandler) Handle(c *gin.Context) {
	ticket := c.Query("ticket")
	if ticket == "" {
		response.AuthError(c, "missing ticket")
		return
	}

	userID, err := h.tickets.ResolveTicket(ticket)
	if err != nil {
		response.AuthError(c, "invalid ticket")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn(c.Request.Context(), "failed to upgrade connection", "err", err)
		return
	}

	client := &ws.Client{
		UserID: userID,
		Conn:   conn,
	}

	h.hub.Register(client)

	// 保持连接，读取消息（主要用于检测断开）
	go func() {
		defer func() {
			h.hub.Unregister(client)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}
