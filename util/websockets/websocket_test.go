package websockets

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server, session string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?session=" + session
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func connected(manager *WebSocketManager, n int) func() bool {
	return func() bool {
		manager.mu.Lock()
		defer manager.mu.Unlock()
		return len(manager.clients) == n
	}
}

func TestPublishReachesOnlyTheSession(t *testing.T) {
	manager := NewWebSocketManager()
	go manager.Run()
	defer manager.Stop()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		manager.HandleConnections(w, r, r.URL.Query().Get("session"))
	}))
	defer srv.Close()

	a := dial(t, srv, "a")
	b := dial(t, srv, "b")
	require.Eventually(t, connected(manager, 2), time.Second, 5*time.Millisecond)

	manager.PublishEvent("a", map[string]string{"message": "Route error"})

	require.NoError(t, a.SetReadDeadline(time.Now().Add(time.Second)))
	_, raw, err := a.ReadMessage()
	require.NoError(t, err)

	var got struct {
		Type  string            `json:"type"`
		Event map[string]string `json:"event"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, MsgTypeEvent, got.Type)
	assert.Equal(t, "Route error", got.Event["message"])

	require.NoError(t, b.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err = b.ReadMessage()
	assert.Error(t, err)
}

func TestClientDisconnectUnregisters(t *testing.T) {
	manager := NewWebSocketManager()
	go manager.Run()
	defer manager.Stop()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		manager.HandleConnections(w, r, "s")
	}))
	defer srv.Close()

	conn := dial(t, srv, "s")
	require.Eventually(t, connected(manager, 1), time.Second, 5*time.Millisecond)

	conn.Close()
	assert.Eventually(t, connected(manager, 0), time.Second, 5*time.Millisecond)
}

func TestPublishDoesNotBlockWithoutRun(t *testing.T) {
	manager := NewWebSocketManager()
	for i := 0; i < sendBuffer+10; i++ {
		manager.PublishState("s", i)
	}
	assert.Len(t, manager.send, sendBuffer)
}

func TestDisconnectClosesSessionClients(t *testing.T) {
	manager := NewWebSocketManager()
	go manager.Run()
	defer manager.Stop()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		manager.HandleConnections(w, r, r.URL.Query().Get("session"))
	}))
	defer srv.Close()

	gone := dial(t, srv, "gone")
	dial(t, srv, "kept")
	require.Eventually(t, connected(manager, 2), time.Second, 5*time.Millisecond)

	manager.Disconnect("gone")

	assert.Equal(t, 0, manager.ClientCount("gone"))
	assert.Equal(t, 1, manager.ClientCount("kept"))

	require.NoError(t, gone.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := gone.ReadMessage()
	assert.Error(t, err)
}
