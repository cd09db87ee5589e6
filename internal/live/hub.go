package live

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"ecopulse/internal/models"
)

// Hub fans accounted emission records out to connected dashboard clients.
type Hub struct {
	mu           sync.Mutex
	conns        map[*websocket.Conn]struct{}
	pingInterval time.Duration
	writeTimeout time.Duration
	logger       *zap.Logger
}

// NewHub builds the feed hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		conns:        make(map[*websocket.Conn]struct{}),
		pingInterval: 30 * time.Second,
		writeTimeout: 5 * time.Second,
		logger:       logger,
	}
}

// Add registers a client connection.
func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

// Remove drops a client connection.
func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

// PublishRecord sends the record to every connected client. Clients that
// fail the write are dropped; a slow dashboard must not stall accounting.
func (h *Hub) PublishRecord(record models.EmissionRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := conn.WriteJSON(record); err != nil {
			h.logger.Debug("dropping live feed client", zap.Error(err))
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// Run pings clients until ctx is cancelled, then closes them all.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-ticker.C:
			h.pingAll()
		}
	}
}

func (h *Hub) pingAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.writeTimeout)); err != nil {
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
}
