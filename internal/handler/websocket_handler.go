package handler

import (
	"net/http"
	"strings"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler upgrades clients onto the event hub
type WebSocketHandler struct {
	hub       *websocket.Hub
	origins   map[string]bool
	anyOrigin bool
	upgrader  ws.Upgrader
}

// NewWebSocketHandler accepts browser connections from allowedOrigins. A "*" entry allows any origin.
func NewWebSocketHandler(hub *websocket.Hub, allowedOrigins []string) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:     hub,
		origins: make(map[string]bool, len(allowedOrigins)),
	}
	for _, origin := range allowedOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "*" {
			h.anyOrigin = true
			continue
		}
		h.origins[origin] = true
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	// Non-browser clients send no Origin header
	if origin == "" || h.anyOrigin || h.origins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Str("remote_ip", r.RemoteAddr).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS godoc
// @Summary Subscribe to ledger events
// @Description Upgrades to a WebSocket that streams ledger change events. Without the entities filter every event is delivered.
// @Description Send {"action":"subscribe"|"unsubscribe","entities":[...]} frames to change the filter later.
// @Tags events
// @Param entities query string false "Comma separated entities (transaction, investment, goal, budget)"
// @Success 101
// @Router /ws [get]
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	subscription := websocket.ParseSubscription(c.QueryParam("entities"))

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	client := websocket.NewClient(conn, subscription, h.hub)
	h.hub.Register(client)

	log.Info().
		Str("client_id", client.ID()).
		Strs("entities", subscription.Names()).
		Msg("WebSocket client connected")

	go client.WritePump()
	go client.ReadPump()

	return nil
}
