package http

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"lan-quiz-server/internal/game"
)

// envelope is the wire frame for every outbound message.
type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type client struct {
	id   string
	send chan []byte
}

// Hub tracks live connections and implements game.Broadcaster. Most events
// fan out to everyone; answer acknowledgments go to a single connection and
// per-answer analytics go to the admin group only.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]*client
	admins map[string]struct{}
	log    zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		conns:  make(map[string]*client),
		admins: make(map[string]struct{}),
		log:    log,
	}
}

func (h *Hub) register(id string) *client {
	c := &client{id: id, send: make(chan []byte, 32)}
	h.mu.Lock()
	h.conns[id] = c
	h.mu.Unlock()
	return c
}

func (h *Hub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.conns[id]; ok {
		delete(h.conns, id)
		close(c.send)
	}
	delete(h.admins, id)
}

func (h *Hub) markAdmin(id string) {
	h.mu.Lock()
	h.admins[id] = struct{}{}
	h.mu.Unlock()
}

// Deliver routes one event to its audience. Slow connections get messages
// dropped rather than blocking the game.
func (h *Hub) Deliver(ev game.Event) {
	data, err := json.Marshal(envelope{Type: ev.Type, Payload: ev.Payload})
	if err != nil {
		h.log.Error().Err(err).Str("event", ev.Type).Msg("failed to marshal event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	switch ev.Scope {
	case game.ScopeConn:
		if c, ok := h.conns[ev.ConnID]; ok {
			h.sendTo(c, data, ev.Type)
		}
	case game.ScopeAdmins:
		for id := range h.admins {
			if c, ok := h.conns[id]; ok {
				h.sendTo(c, data, ev.Type)
			}
		}
	default:
		for _, c := range h.conns {
			h.sendTo(c, data, ev.Type)
		}
	}
}

func (h *Hub) sendTo(c *client, data []byte, eventType string) {
	select {
	case c.send <- data:
	default:
		h.log.Warn().Str("conn_id", c.id).Str("event", eventType).Msg("send buffer full, dropping message")
	}
}
