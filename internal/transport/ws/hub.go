package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"surveyengine/internal/form"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Server message types
const (
	MsgView         MessageType = "view"
	MsgSubmitResult MessageType = "submit_result"
	MsgSessionEnded MessageType = "session_ended"
	MsgError        MessageType = "error"
)

// Client message types
const (
	MsgEvent  MessageType = "event"  // payload: form.Event
	MsgSubmit MessageType = "submit" // no payload
	MsgReset  MessageType = "reset"  // no payload
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ErrorPayload is the payload of an error message
type ErrorPayload struct {
	Error string `json:"error"`
}

// Hub fans form updates out to every connection watching a session
type Hub struct {
	sessions map[string]map[*Connection]struct{}
	logger   *slog.Logger

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	disconnect chan string
}

// Connection is one WebSocket client of a form session
type Connection struct {
	SessionID string
	Send      chan []byte
}

// BroadcastMessage is a message for a session, or for one of its connections
type BroadcastMessage struct {
	SessionID string
	To        *Connection // nil means every connection of the session
	Message   *Message
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Hub{
		sessions:   make(map[string]map[*Connection]struct{}),
		logger:     logger,
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		disconnect: make(chan string, 16),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.sessions[conn.SessionID] == nil {
				h.sessions[conn.SessionID] = make(map[*Connection]struct{})
			}
			h.sessions[conn.SessionID][conn] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("ws client connected", "session", conn.SessionID)

		case conn := <-h.unregister:
			h.mu.Lock()
			h.drop(conn)
			h.mu.Unlock()

		case id := <-h.disconnect:
			h.mu.Lock()
			ended, _ := json.Marshal(&Message{Type: MsgSessionEnded})
			for conn := range h.sessions[id] {
				select {
				case conn.Send <- ended:
				default:
				}
				h.drop(conn)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.logger.Error("encode ws message", "type", msg.Message.Type, "error", err)
				continue
			}
			h.mu.RLock()
			for conn := range h.sessions[msg.SessionID] {
				if msg.To != nil && msg.To != conn {
					continue
				}
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// drop must be called with h.mu held
func (h *Hub) drop(conn *Connection) {
	conns, ok := h.sessions[conn.SessionID]
	if !ok {
		return
	}
	if _, ok := conns[conn]; !ok {
		return
	}
	delete(conns, conn)
	close(conn.Send)
	if len(conns) == 0 {
		delete(h.sessions, conn.SessionID)
	}
	h.logger.Debug("ws client disconnected", "session", conn.SessionID)
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Connections reports how many clients watch a session
func (h *Hub) Connections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// SendTo queues a message for a single connection
func (h *Hub) SendTo(conn *Connection, msgType MessageType, payload interface{}) {
	h.enqueue(conn.SessionID, conn, msgType, payload)
}

// BroadcastView pushes the form view to every client of the session (implements service.Broadcaster)
func (h *Hub) BroadcastView(sessionID string, view form.View) {
	h.enqueue(sessionID, nil, MsgView, view)
}

// DisconnectSession closes every client of the session (implements service.Broadcaster)
func (h *Hub) DisconnectSession(sessionID string) {
	h.disconnect <- sessionID
}

func (h *Hub) enqueue(sessionID string, to *Connection, msgType MessageType, payload interface{}) {
	msg := &Message{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			h.logger.Error("encode ws payload", "type", msgType, "error", err)
			return
		}
		msg.Payload = data
	}
	h.broadcast <- &BroadcastMessage{SessionID: sessionID, To: to, Message: msg}
}
