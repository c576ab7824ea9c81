package websockets

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

const sendBuffer = 256

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewWebSocketManager initializes a WebSocketManager
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[*websocket.Conn]*Client),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
		send:       make(chan DirectMessage, sendBuffer),
		done:       make(chan struct{}),
	}
}

// Run starts the WebSocket manager. It returns after Stop.
func (manager *WebSocketManager) Run() {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client.Conn] = client
			manager.mu.Unlock()

		case conn := <-manager.unregister:
			manager.mu.Lock()
			if client, exists := manager.clients[conn]; exists {
				delete(manager.clients, conn)
				conn.Close()
				log.Printf("websocket client for session %s disconnected", client.SessionID)
			}
			manager.mu.Unlock()

		case direct := <-manager.send:
			manager.mu.Lock()
			for conn, client := range manager.clients {
				if client.SessionID != direct.SessionID {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, direct.Message); err != nil {
					conn.Close()
					delete(manager.clients, conn)
				}
			}
			manager.mu.Unlock()

		case <-manager.done:
			manager.mu.Lock()
			for conn := range manager.clients {
				conn.Close()
				delete(manager.clients, conn)
			}
			manager.mu.Unlock()
			return
		}
	}
}

// Stop closes every connection and ends Run.
func (manager *WebSocketManager) Stop() {
	select {
	case <-manager.done:
	default:
		close(manager.done)
	}
}

// HandleConnections upgrades the request and attaches the connection to
// sessionID until the client goes away. Incoming messages are ignored.
func (manager *WebSocketManager) HandleConnections(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket Upgrade Error:", err)
		return
	}

	select {
	case manager.register <- &Client{Conn: conn, SessionID: sessionID}:
	case <-manager.done:
		conn.Close()
		return
	}

	defer func() {
		select {
		case manager.unregister <- conn:
		case <-manager.done:
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Disconnect closes every connection attached to sessionID. The readers in
// HandleConnections then see the close and unregister as usual.
func (manager *WebSocketManager) Disconnect(sessionID string) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	for conn, client := range manager.clients {
		if client.SessionID == sessionID {
			conn.Close()
			delete(manager.clients, conn)
		}
	}
}

// ClientCount reports how many connections are attached to sessionID.
func (manager *WebSocketManager) ClientCount(sessionID string) int {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	n := 0
	for _, client := range manager.clients {
		if client.SessionID == sessionID {
			n++
		}
	}
	return n
}

// PublishState pushes a state snapshot to the session's clients.
func (manager *WebSocketManager) PublishState(sessionID string, state interface{}) {
	manager.publish(sessionID, Message{Type: MsgTypeState, State: state})
}

// PublishEvent pushes a one-shot event to the session's clients.
func (manager *WebSocketManager) PublishEvent(sessionID string, event interface{}) {
	manager.publish(sessionID, Message{Type: MsgTypeEvent, Event: event})
}

// publish never blocks; messages are dropped when the queue is full.
func (manager *WebSocketManager) publish(sessionID string, msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Println("websocket: marshal:", err)
		return
	}
	select {
	case manager.send <- DirectMessage{SessionID: sessionID, Message: payload}:
	default:
		log.Printf("websocket: send queue full, dropping %s for session %s", msg.Type, sessionID)
	}
}
