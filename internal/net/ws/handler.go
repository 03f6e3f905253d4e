// Package ws runs websocket sessions: it upgrades connections, replays the
// initial state, and feeds decoded client messages into the intake pipeline.
package ws

import (
	"encoding/json"
	"log"
	nethttp "net/http"
	"time"

	"github.com/gorilla/websocket"

	"crownridge/server"
	"crownridge/server/internal/net/intake"
	"crownridge/server/internal/net/proto"
	"crownridge/server/internal/sim"
)

type commandRejectMessage struct {
	Ver    int    `json:"ver"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
	Retry  bool   `json:"retry,omitempty"`
}

type heartbeatMessage struct {
	Ver        int    `json:"ver"`
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
	RTTMillis  int64  `json:"rtt"`
}

// HandlerConfig configures session handling.
type HandlerConfig struct {
	Logger *log.Logger
}

// Handler upgrades and serves websocket sessions against a hub.
type Handler struct {
	hub      *server.Hub
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewHandler constructs a websocket session handler for the given hub.
func NewHandler(hub *server.Hub, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *nethttp.Request) bool {
				return true
			},
		},
	}
}

// Handle upgrades the request and runs the session read loop until the
// connection drops.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	sessionID := r.URL.Query().Get("id")
	if sessionID == "" {
		nethttp.Error(w, "missing id", nethttp.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed for %s: %v", sessionID, err)
		return
	}

	sub, snapshot, layout, ok := h.hub.Subscribe(sessionID, conn)
	if !ok {
		message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unknown session")
		conn.WriteMessage(websocket.CloseMessage, message)
		conn.Close()
		return
	}

	initial, err := server.MarshalInitialState(snapshot, layout)
	if err != nil {
		h.logger.Printf("failed to marshal initial state for %s: %v", sessionID, err)
		h.hub.Disconnect(sessionID)
		return
	}
	if err := sub.WriteMessage(websocket.TextMessage, initial); err != nil {
		h.hub.Disconnect(sessionID)
		return
	}

	ctx := intake.CommandContext{
		Stage: h.hub.Push,
		Frame: h.hub.Frame,
		Now:   time.Now,
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			h.hub.Disconnect(sessionID)
			return
		}

		var msg proto.ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.logger.Printf("discarding malformed message from %s: %v", sessionID, err)
			continue
		}

		if msg.Type == proto.TypeHeartbeat {
			if !h.handleHeartbeat(sessionID, sub, msg) {
				return
			}
			continue
		}

		_, staged, reason := intake.StageClientCommand(ctx, msg)
		if staged {
			continue
		}
		if reason == server.CommandRejectInvalid {
			h.logger.Printf("rejecting message type %q from %s", msg.Type, sessionID)
		}
		reject := commandRejectMessage{
			Ver:    server.ProtocolVersion,
			Type:   "commandReject",
			Reason: reason,
			Retry:  reason == server.CommandRejectQueueLimit,
		}
		data, err := json.Marshal(reject)
		if err != nil {
			continue
		}
		if err := sub.WriteMessage(websocket.TextMessage, data); err != nil {
			h.hub.Disconnect(sessionID)
			return
		}
	}
}

type subscription interface {
	WriteMessage(messageType int, data []byte) error
}

// handleHeartbeat stages the connectivity update and acks immediately.
// Reports false when the connection is gone.
func (h *Handler) handleHeartbeat(sessionID string, sub subscription, msg proto.ClientMessage) bool {
	now := time.Now()
	h.hub.Push(sim.Command{
		Type: sim.CommandHeartbeat,
		Heartbeat: &sim.HeartbeatCommand{
			SessionID:  sessionID,
			ReceivedAt: now,
			ClientSent: msg.SentAt,
		},
	})

	var rtt int64
	if msg.SentAt > 0 {
		if d := now.Sub(time.UnixMilli(msg.SentAt)); d > 0 && d < 5*time.Second {
			rtt = d.Milliseconds()
		}
	}
	ack := heartbeatMessage{
		Ver:        server.ProtocolVersion,
		Type:       "heartbeat",
		ServerTime: now.UnixMilli(),
		ClientTime: msg.SentAt,
		RTTMillis:  rtt,
	}
	data, err := json.Marshal(ack)
	if err != nil {
		h.logger.Printf("failed to marshal heartbeat ack for %s: %v", sessionID, err)
		return true
	}
	if err := sub.WriteMessage(websocket.TextMessage, data); err != nil {
		h.hub.Disconnect(sessionID)
		return false
	}
	return true
}
