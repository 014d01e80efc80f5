package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/criptex_server/internal/pkg/logging"
	"github.com/qs3c/criptex_server/internal/pkg/ws"
	"github.com/qs3c/criptex_server/internal/service"
)

func TestWebSocketHandler_TicketAndConnect(t *testing.T) {
	env := setupEnv(t)
	hub := ws.NewHub(logging.Nop())
	handler := NewWebSocketHandler(hub, service.NewTicketService(&env.cfg.JWT), nil, logging.Nop())

	router := gin.New()
	router.GET("/ws/ticket", env.requireAuth(), handler.Ticket)
	router.GET("/ws", handler.Handle)

	server := httptest.NewServer(router)
	defer server.Close()

	user, token := env.login(t)

	w := performRequest(router, "GET", "/ws/ticket", nil, bearer(token)...)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Ticket    string    `json:"ticket"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	parseData(t, w, &data)
	require.NotEmpty(t, data.Ticket)
	assert.True(t, data.ExpiresAt.After(time.Now()))

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?ticket=" + data.Ticket
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.IsOnline(user.ID) }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.SendToUser(user.ID, &ws.Message{Type: "bonus_claimed", Data: map[string]int{"free_predictions": 6}}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var msg struct {
		Type string         `json:"type"`
		Data map[string]int `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "bonus_claimed", msg.Type)
	assert.Equal(t, 6, msg.Data["free_predictions"])

	// 客户端断开后注销
	conn.Close()
	assert.Eventually(t, func() bool { return !hub.IsOnline(user.ID) }, time.Second, 10*time.Millisecond)
}

func TestWebSocketHandler_Handle_BadTicket(t *testing.T) {
	env := setupEnv(t)
	handler := NewWebSocketHandler(ws.NewHub(nil), service.NewTicketService(&env.cfg.JWT), nil, logging.Nop())

	router := gin.New()
	router.GET("/ws", handler.Handle)

	w := performRequest(router, "GET", "/ws", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(router, "GET", "/ws?ticket=forged", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 会话令牌不能当作票据使用
	_, token := env.login(t)
	w = performRequest(router, "GET", "/ws?ticket="+token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebSocketHandler_Ticket_Unauthenticated(t *testing.T) {
	env := setupEnv(t)
	handler := NewWebSocketHandler(ws.NewHub(nil), service.NewTicketService(&env.cfg.JWT), nil, logging.Nop())

	router := gin.New()
	router.GET("/ws/ticket", env.requireAuth(), handler.Ticket)

	w := performRequest(router, "GET", "/ws/ticket", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		name     string
		allowed  []string
		origin   string
		expected bool
	}{
		{name: "no origin header", allowed: []string{"https://a.com"}, origin: "", expected: true},
		{name: "no allow list", allowed: nil, origin: "https://b.com", expected: true},
		{name: "allowed", allowed: []string{"https://a.com"}, origin: "https://a.com", expected: true},
		{name: "rejected", allowed: []string{"https://a.com"}, origin: "https://b.com", expected: false},
		{name: "wildcard", allowed: []string{"*"}, origin: "https://b.com", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.expected, checkOrigin(tt.allowed)(req))
		})
	}
}
