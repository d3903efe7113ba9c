package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"timed-quiz-service/internal/app"
)

// WSHandler serves the timer-sync websocket. The client sends sync requests
// whenever it wants to recalibrate its countdown display; every reply is
// computed on demand from the authoritative start timestamp, so there is no
// server-side ticking and the client clock is never trusted.
type WSHandler struct {
	service  *app.QuizService
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type syncPayload struct {
	ClientTimestamp *float64 `json:"client_timestamp"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type wsError struct {
	Message string `json:"message"`
}

// ServeWS upgrades the connection and answers timer sync requests for the
// caller's quiz session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		http.Error(w, "no quiz session", http.StatusBadRequest)
		return
	}
	sessionID := c.Value

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "sync":
			var payload syncPayload
			if len(inbound.Payload) > 0 {
				if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
					_ = conn.WriteJSON(outboundMessage[wsError]{Type: "error", Payload: wsError{Message: "invalid sync payload"}})
					continue
				}
			}
			status, err := h.service.TimerSync(r.Context(), sessionID, payload.ClientTimestamp)
			if err != nil {
				_ = conn.WriteJSON(outboundMessage[wsError]{Type: "error", Payload: wsError{Message: err.Error()}})
				continue
			}
			if err := conn.WriteJSON(outboundMessage[app.TimerStatus]{Type: "timer", Payload: status}); err != nil {
				h.logger.Warn("ws write error", zap.Error(err))
				return
			}
		default:
			_ = conn.WriteJSON(outboundMessage[wsError]{Type: "error", Payload: wsError{Message: "unsupported message type"}})
		}
	}
}
