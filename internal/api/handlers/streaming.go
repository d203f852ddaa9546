package handlers

import (
	"net/http"

	"scamshield/internal/streaming"
	"scamshield/pkg/logger"
)

// StreamingHandler serves the live scan feed
type StreamingHandler struct {
	wsHub  *streaming.WebSocketHub
	logger *logger.Logger
}

// NewStreamingHandler creates a new streaming handler. wsHub may be nil.
func NewStreamingHandler(wsHub *streaming.WebSocketHub, log *logger.Logger) *StreamingHandler {
	return &StreamingHandler{
		wsHub:  wsHub,
		logger: log.WithComponent("streaming-handler"),
	}
}

// HandleWebSocket handles GET /scans/live
func (h *StreamingHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		respondError(w, http.StatusServiceUnavailable, "live feed not available")
		return
	}

	h.logger.Debug().
		Str("remote_addr", r.RemoteAddr).
		Str("user_agent", r.UserAgent()).
		Msg("WebSocket connection request")

	h.wsHub.ServeWebSocket(w, r)
}

// Stats handles GET /scans/live/stats
func (h *StreamingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	clients := 0
	if h.wsHub != nil {
		clients = h.wsHub.ClientCount()
	}
	respondJSON(w, http.StatusOK, map[string]int{"websocket_clients": clients})
}
