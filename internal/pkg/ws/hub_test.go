package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// startServer 每个连接以 query 中的 user 注册到 hub，读到关闭后注销
func startServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		client := &Client{UserID: r.URL.Query().Get("user"), Conn: conn}
		hub.Register(client)
		defer func() {
			hub.Unregister(client)
			conn.Close()
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server, userID string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?user=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	return conn
}

func TestNewHub(t *testing.T) {
	hub := NewHub(nil)

	assert.NotNil(t, hub)
	assert.Equal(t, 0, hub.ConnectionCount())
	assert.False(t, hub.IsOnline("u1"))
}

func TestHub_SendToUser_UserNotOnline(t *testing.T) {
	hub := NewHub(nil)

	err := hub.SendToUser("u1", &Message{Type: "test", Data: map[string]string{"key": "value"}})
	assert.NoError(t, err)
}

func TestHub_RegisterAndUnregister(t *testing.T) {
	hub := NewHub(nil)
	server := startServer(t, hub)

	conn := dial(t, server, "u1")
	require.Eventually(t, func() bool { return hub.IsOnline("u1") }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, hub.ConnectionCount())

	conn.Close()
	require.Eventually(t, func() bool { return !hub.IsOnline("u1") }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.ConnectionCount())
}

func TestHub_SendToUser_AllConnections(t *testing.T) {
	hub := NewHub(nil)
	server := startServer(t, hub)

	tab1 := dial(t, server, "u1")
	defer tab1.Close()
	tab2 := dial(t, server, "u1")
	defer tab2.Close()
	other := dial(t, server, "u2")
	defer other.Close()

	require.Eventually(t, func() bool { return hub.ConnectionCount() == 3 }, time.Second, 10*time.Millisecond)

	err := hub.SendToUser("u1", &Message{Type: "bonus_claimed", Data: map[string]int{"free_predictions": 6}})
	require.NoError(t, err)

	for _, conn := range []*websocket.Conn{tab1, tab2} {
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "bonus_claimed", msg.Type)
		data := msg.Data.(map[string]interface{})
		assert.Equal(t, float64(6), data["free_predictions"])
	}

	// 其他用户收不到
	_ = other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err)
}
