package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"lan-quiz-server/internal/domain"
	"lan-quiz-server/internal/game"
)

// WSHandler upgrades HTTP requests to websockets and translates inbound
// frames into game commands.
type WSHandler struct {
	service  *game.Service
	hub      *Hub
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewWSHandler(service *game.Service, hub *Hub, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		hub:     hub,
		log:     log,
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

type joinPayload struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

type submitAnswerPayload struct {
	OptionIndex int `json:"optionIndex"`
}

type startGamePayload struct {
	Category string `json:"category"`
	Topic    string `json:"topic"`
	Count    int    `json:"count"`
}

func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("ws upgrade failed")
		return
	}

	connID := uuid.NewString()
	c := h.hub.register(connID)
	h.log.Debug().Str("conn_id", connID).Str("remote", r.RemoteAddr).Msg("connection opened")

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range c.send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.log.Debug().Err(err).Str("conn_id", connID).Msg("ws write error")
				return
			}
		}
		_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(r, connID, inbound)
	}

	h.hub.unregister(connID)
	h.service.Leave(connID)
	<-writerDone
	_ = conn.Close()
	h.log.Debug().Str("conn_id", connID).Msg("connection closed")
}

// dispatch applies one inbound frame. A panic in a handler is logged and
// dropped so a malformed message cannot take down a healthy session.
func (h *WSHandler) dispatch(r *http.Request, connID string, inbound inboundMessage) {
	defer func() {
		if rec := recover(); rec != nil {
			h.log.Error().Interface("panic", rec).Str("type", inbound.Type).Str("conn_id", connID).Msg("recovered from handler panic")
		}
	}()

	switch inbound.Type {
	case "join":
		var payload joinPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			h.sendError(connID, "invalid join payload")
			return
		}
		h.service.Join(connID, payload.Name, payload.Specialty)

	case "submitAnswer":
		var payload submitAnswerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			h.sendError(connID, "invalid answer payload")
			return
		}
		h.service.SubmitAnswer(connID, payload.OptionIndex)

	case "adminJoin":
		h.hub.markAdmin(connID)
		h.service.AdminJoin(connID)

	case "adminStartGame":
		var payload startGamePayload
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.sendError(connID, "invalid start payload")
				return
			}
		}
		h.service.StartGame(r.Context(), connID, domain.Selector{
			Category: payload.Category,
			Topic:    payload.Topic,
			Count:    payload.Count,
		})

	case "adminNextQuestion":
		h.service.NextQuestion(connID)

	case "adminRevealAnswer":
		h.service.RevealAnswer(connID)

	case "adminRestart":
		h.service.Restart(connID)

	default:
		h.sendError(connID, "unsupported message type")
	}
}

func (h *WSHandler) sendError(connID, message string) {
	h.hub.Deliver(game.Event{
		Scope:   game.ScopeConn,
		ConnID:  connID,
		Type:    game.EventError,
		Payload: game.ErrorPayload{Message: message},
	})
}
