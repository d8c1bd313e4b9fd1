package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/ports"
)

const (
	EventCatalog  = "catalog"
	EventSettings = "settings"
	EventStatus   = "status"

	writeWait = 5 * time.Second

	// sendBuffer is how many frames a slow client may lag before it is dropped.
	sendBuffer = 16
)

var _ ports.Notifier = (*Hub)(nil)

// Message is the frame pushed to every attached view.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

type statusPayload struct {
	Status   domain.Status `json:"status"`
	Degraded bool          `json:"degraded"`
}

// client is one attached view. Frames are queued on send and written by the
// client's own writer goroutine.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub pushes replica changes to connected browsers. The last frame of each
// kind is replayed to new connections so they start from current state.
// Broadcasting never waits on a socket.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger
	origins  []string

	mu      sync.Mutex
	clients map[*client]struct{}
	latest  map[string][]byte
}

type HubOption func(*Hub)

// WithAllowedOrigins restricts upgrades to the given browser origins. An empty
// list or "*" accepts every origin.
func WithAllowedOrigins(origins []string) HubOption {
	return func(h *Hub) {
		h.origins = nil
		for _, origin := range origins {
			if origin = strings.TrimSpace(origin); origin != "" {
				h.origins = append(h.origins, strings.TrimRight(origin, "/"))
			}
		}
	}
}

func NewHub(logger *slog.Logger, opts ...HubOption) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Hub{
		logger:  logger,
		clients: make(map[*client]struct{}),
		latest:  make(map[string][]byte),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	if len(h.origins) == 0 || slices.Contains(h.origins, "*") {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return slices.ContainsFunc(h.origins, func(allowed string) bool {
		return strings.EqualFold(allowed, strings.TrimRight(origin, "/"))
	})
}

// ServeWS upgrades the request and keeps the client registered until it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.LogAttrs(r.Context(), slog.LevelWarn, "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	for _, event := range []string{EventStatus, EventSettings, EventCatalog} {
		if frame, ok := h.latest[event]; ok {
			c.send <- frame
		}
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writePump(c)
	h.readPump(c)
}

// readPump drains the connection until the browser goes away.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump is the only writer of c.conn. It exits when send is closed or a
// write fails.
func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for frame := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			h.logger.LogAttrs(context.Background(), slog.LevelDebug, "websocket write failed", slog.String("error", err.Error()))
			h.unregister(c)
			return
		}
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

func (h *Hub) dropLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// Clients reports how many views are attached.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) CatalogReloaded(ctx context.Context, view any) {
	h.broadcast(ctx, Message{Event: EventCatalog, Payload: view})
}

func (h *Hub) SettingsChanged(ctx context.Context, view any) {
	h.broadcast(ctx, Message{Event: EventSettings, Payload: view})
}

func (h *Hub) StatusChanged(ctx context.Context, status domain.Status) {
	h.broadcast(ctx, Message{Event: EventStatus, Payload: statusPayload{Status: status, Degraded: status.Degraded()}})
}

// broadcast queues the frame for every client. A client whose queue is full is
// disconnected; it gets the latest state replayed when it reconnects.
func (h *Hub) broadcast(ctx context.Context, message Message) {
	frame, err := json.Marshal(message)
	if err != nil {
		h.logger.LogAttrs(ctx, slog.LevelError, "failed to marshal push frame",
			slog.String("event", message.Event), slog.String("error", err.Error()))
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest[message.Event] = frame
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			h.logger.LogAttrs(ctx, slog.LevelWarn, "dropping slow websocket client", slog.String("event", message.Event))
			h.dropLocked(c)
		}
	}
}
