package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"surveyengine/internal/form"
	"surveyengine/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler serves the live form channel: clients send raw interaction
// events and receive the updated view after each one.
type Handler struct {
	hub     *Hub
	authSvc *service.AuthService
	formSvc *service.FormService
	logger  *slog.Logger
}

func NewHandler(hub *Hub, authSvc *service.AuthService, formSvc *service.FormService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		hub:     hub,
		authSvc: authSvc,
		formSvc: formSvc,
		logger:  logger,
	}
}

// FormWS handles GET /api/ws/forms/{id}?token=
func (h *Handler) FormWS(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateSessionToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if claims.SessionID != id {
		http.Error(w, "token not valid for this form", http.StatusForbidden)
		return
	}

	view, err := h.formSvc.View(r.Context(), id)
	if err != nil {
		http.Error(w, "form session not found", http.StatusNotFound)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", "error", err)
		return
	}

	conn := &Connection{
		SessionID: id,
		Send:      make(chan []byte, 64),
	}
	h.hub.Register(conn)
	h.hub.SendTo(conn, MsgView, view)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket read", "session", conn.SessionID, "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.hub.SendTo(conn, MsgError, ErrorPayload{Error: "invalid message"})
			continue
		}
		if errors.Is(h.handleMessage(conn, &msg), service.ErrSessionNotFound) {
			return
		}
	}
}

// handleMessage runs one client message. Views produced by the form service
// reach every client of the session through the hub.
func (h *Handler) handleMessage(conn *Connection, msg *Message) error {
	ctx := context.Background()
	var err error
	switch msg.Type {
	case MsgEvent:
		var ev form.Event
		if err = json.Unmarshal(msg.Payload, &ev); err != nil {
			h.hub.SendTo(conn, MsgError, ErrorPayload{Error: "invalid event"})
			return nil
		}
		_, err = h.formSvc.Apply(ctx, conn.SessionID, ev)
	case MsgSubmit:
		var out *service.SubmitOutcome
		if out, err = h.formSvc.Submit(ctx, conn.SessionID); err == nil {
			h.hub.SendTo(conn, MsgSubmitResult, out)
		}
	case MsgReset:
		_, err = h.formSvc.Reset(ctx, conn.SessionID)
	default:
		h.hub.SendTo(conn, MsgError, ErrorPayload{Error: "unknown message type"})
		return nil
	}
	if err != nil {
		h.hub.SendTo(conn, MsgError, ErrorPayload{Error: err.Error()})
	}
	return err
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
