// internal/api/websocket.go
package api

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/junglecut/storyarc/internal/logging"
	"github.com/junglecut/storyarc/internal/services"
	"github.com/junglecut/storyarc/internal/utils"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The planning UI is same-machine or trusted-origin only.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NotificationHub pushes engine notifications to connected browsers over
// WebSocket.
type NotificationHub struct {
	notify  *services.NotifyService
	logger  *logging.Logger
	metrics *utils.EngineMetrics

	register   chan *wsClient
	unregister chan *wsClient
	clients    map[*wsClient]struct{}
	closed     atomic.Bool
	done       chan struct{}
}

type wsClient struct {
	conn *websocket.Conn
	send chan services.Notification
}

func NewNotificationHub(notify *services.NotifyService, logger *logging.Logger, metrics *utils.EngineMetrics) *NotificationHub {
	return &NotificationHub{
		notify:     notify,
		logger:     logger,
		metrics:    metrics,
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		clients:    make(map[*wsClient]struct{}),
		done:       make(chan struct{}),
	}
}

// Run owns the client set and fans notifications out. Call it once, in its
// own goroutine.
func (h *NotificationHub) Run() {
	subID, events := h.notify.Subscribe()
	defer h.notify.Unsubscribe(subID)

	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.updateClientGauge()
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.updateClientGauge()
			}
		case n, ok := <-events:
			if !ok {
				return
			}
			for client := range h.clients {
				select {
				case client.send <- n:
				default:
					// Drop clients that cannot keep up.
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.updateClientGauge()
		case <-h.done:
			for client := range h.clients {
				close(client.send)
			}
			h.clients = make(map[*wsClient]struct{})
			h.updateClientGauge()
			return
		}
	}
}

// Close shuts the hub down; subsequent Handle calls are rejected.
func (h *NotificationHub) Close() {
	if h.closed.CompareAndSwap(false, true) {
		close(h.done)
	}
}

func (h *NotificationHub) updateClientGauge() {
	if h.metrics != nil {
		h.metrics.SetWebSocketClients(int64(len(h.clients)))
	}
}

// Handle upgrades the request and attaches the connection to the hub.
func (h *NotificationHub) Handle(c *gin.Context) {
	if h.closed.Load() {
		c.AbortWithStatus(http.StatusServiceUnavailable)
		return
	}

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan services.Notification, 16),
	}
	h.register <- client

	go h.writePump(client)
	go h.readPump(client)
}

func (h *NotificationHub) writePump(client *wsClient) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case n, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteJSON(n); err != nil {
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; the socket is one-way. It exists to
// service pongs and to notice the peer going away.
func (h *NotificationHub) readPump(client *wsClient) {
	defer func() {
		h.unregister <- client
		client.conn.Close()
	}()

	client.conn.SetReadLimit(512)
	client.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}
