package streaming

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"scamshield/internal/domain/models"
	"scamshield/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4 * 1024
)

// WebSocketHub streams live scan events to connected clients. Each client
// holds its own bus subscription filtered by the label and min_score query
// parameters given at connect time.
type WebSocketHub struct {
	bus      *EventBus
	upgrader websocket.Upgrader
	logger   *logger.Logger

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

type wsClient struct {
	conn        *websocket.Conn
	events      <-chan models.ScanEvent
	unsubscribe func()
	done        chan struct{}
}

// NewWebSocketHub creates a hub fed by bus. checkOrigin may be nil to accept
// any origin.
func NewWebSocketHub(bus *EventBus, checkOrigin func(*http.Request) bool, log *logger.Logger) *WebSocketHub {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &WebSocketHub{
		bus: bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger:  log.WithComponent("websocket-hub"),
		clients: make(map[*wsClient]struct{}),
	}
}

// ServeWebSocket upgrades the request and streams events until the client
// goes away
func (h *WebSocketHub) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to upgrade connection")
		return
	}

	events, unsubscribe := h.bus.Subscribe(SubscriptionFromQuery(r.URL.Query()))
	c := &wsClient{
		conn:        conn,
		events:      events,
		unsubscribe: unsubscribe,
		done:        make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info().Int("clients", n).Msg("client connected")

	go h.writePump(c)
	go h.readPump(c)
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client
func (h *WebSocketHub) Close() {
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.remove(c)
	}
}

func (h *WebSocketHub) remove(c *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	c.unsubscribe()
	close(c.done)
	c.conn.Close()
	h.logger.Info().Int("clients", n).Msg("client disconnected")
}

// readPump discards client messages and detects disconnects
func (h *WebSocketHub) readPump(c *wsClient) {
	defer h.remove(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug().Err(err).Msg("websocket read error")
			}
			return
		}
	}
}

// writePump forwards bus events as JSON text frames and keeps the
// connection alive with pings
func (h *WebSocketHub) writePump(c *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.remove(c)
	}()

	for {
		select {
		case <-c.done:
			return

		case event, ok := <-c.events:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
