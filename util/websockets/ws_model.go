package websockets

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Message types pushed to clients
const (
	MsgTypeState = "state"
	MsgTypeEvent = "event"
)

// Client is one websocket connection attached to a session
type Client struct {
	Conn      *websocket.Conn
	SessionID string
}

type WebSocketManager struct {
	clients    map[*websocket.Conn]*Client
	register   chan *Client
	unregister chan *websocket.Conn
	send       chan DirectMessage
	done       chan struct{}
	mu         sync.Mutex
}

// DirectMessage is a payload addressed to every client of one session
type DirectMessage struct {
	SessionID string `json:"session_id"`
	Message   []byte `json:"message"`
}

// Message is the envelope written to clients
type Message struct {
	Type  string      `json:"type"`
	State interface{} `json:"state,omitempty"`
	Event interface{} `json:"event,omitempty"`
}
