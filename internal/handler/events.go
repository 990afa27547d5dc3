package handler

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	v1 "yqms/api/v1"
	"yqms/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const eventWriteTimeout = 5 * time.Second

// EventHub pushes finished run results to connected websocket clients, so
// dashboards see sync outcomes without polling the history endpoint.
type EventHub struct {
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewEventHub(logger *log.Logger) *EventHub {
	return &EventHub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Publish fans one run result out to every connected client. A client that
// cannot be written to is dropped; delivery is best effort.
func (h *EventHub) Publish(res v1.SyncRunResult) {
	payload, err := json.Marshal(res)
	if err != nil {
		h.logger.Error("failed to marshal run event", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Warn("dropping slow event client", zap.Error(err))
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Handle upgrades the request and keeps the connection registered until the
// client goes away. Inbound messages are discarded.
func (h *EventHub) Handle(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.logger.WithContext(ctx).Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("event client connected", zap.Int("clients", count))

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}
