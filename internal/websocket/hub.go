package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"safetypulse/internal/config"
	"safetypulse/internal/infrastructure"
	"safetypulse/pkg/contracts/domain"
	"safetypulse/pkg/contracts/events"
)

// Message types pushed to clients
const (
	TypeConnection      = events.MessageTypeConnection
	TypeSnapshotUpdated = events.MessageTypeSnapshotUpdated
	TypeSnapshotError   = events.MessageTypeSnapshotError
)

// Message is the envelope of every frame sent to clients
type Message = events.Message

type outbound struct {
	msgType events.MessageType
	payload []byte
}

// Hub maintains the set of active clients and broadcasts snapshot changes to them
type Hub struct {
	clients map[*Client]struct{}

	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	running bool
	quit    chan struct{}
	done    chan struct{}

	status     func() domain.SnapshotStatus
	pingPeriod time.Duration
	pongWait   time.Duration

	metrics *Metrics
	logger  *slog.Logger
}

// NewHub creates a hub; call Start before serving clients
func NewHub(cfg config.WebSocketConfig, metrics *Metrics, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if metrics == nil {
		metrics = NoopMetrics()
	}

	pongWait := cfg.PongWait
	if pongWait <= 0 {
		pongWait = 60 * time.Second
	}
	pingPeriod := cfg.PingPeriod
	if pingPeriod <= 0 || pingPeriod >= pongWait {
		pingPeriod = pongWait * 9 / 10
	}

	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan outbound, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		pingPeriod: pingPeriod,
		pongWait:   pongWait,
		metrics:    metrics,
		logger:     logger.With(slog.String("component", "websocket.hub")),
	}
}

// SetStatusProvider makes newly connected clients receive the current snapshot status
func (h *Hub) SetStatusProvider(fn func() domain.SnapshotStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = fn
}

// Start runs the hub loop in a goroutine. Repeated calls are no-ops.
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.running = true
	go h.run()
}

// Stop closes every client and waits for the hub loop to exit
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
	<-h.done
}

func (h *Hub) run() {
	defer close(h.done)

	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			count := len(h.clients)
			statusFn := h.status
			h.mu.Unlock()

			ctx := client.context()
			h.metrics.recordConnect(ctx)
			h.logger.InfoContext(ctx, "client registered",
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr),
				slog.Int("total_clients", count))

			data := events.ConnectionPayload{
				Status:          "connected",
				ClientID:        client.id,
				ProtocolVersion: events.ProtocolVersion,
			}
			if statusFn != nil {
				st := statusFn()
				data.Snapshot = &st
			}
			if payload, err := encode(TypeConnection, data, client.traceID); err == nil {
				select {
				case client.send <- payload:
				default:
					h.logger.WarnContext(ctx, "client buffer full, connection message skipped",
						slog.String("client_id", client.id))
				}
			}

		case client := <-h.unregister:
			h.remove(client, "client unregistered")

		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

func (h *Hub) fanOut(msg outbound) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	sent := 0
	for _, client := range clients {
		select {
		case client.send <- msg.payload:
			sent++
		default:
			h.metrics.recordDropped(client.context())
			h.remove(client, "client send buffer full, disconnecting")
		}
	}

	h.metrics.recordSent(context.Background(), string(msg.msgType), sent)
	h.logger.Debug("broadcast delivered",
		slog.String("type", string(msg.msgType)),
		slog.Int("clients", sent),
		slog.Int("payload_size", len(msg.payload)))
}

// remove must only be called from the hub loop
func (h *Hub) remove(client *Client, reason string) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	close(client.send)
	count := len(h.clients)
	h.mu.Unlock()

	ctx := client.context()
	lifetime := time.Since(client.connectedAt)
	h.metrics.recordDisconnect(ctx, lifetime)
	h.logger.InfoContext(ctx, reason,
		slog.String("client_id", client.id),
		slog.Int("total_clients", count),
		slog.Duration("connection_duration", lifetime))
}

// Publish queues a message for every connected client. It returns false if the hub is stopped.
func (h *Hub) Publish(ctx context.Context, msgType events.MessageType, data interface{}) bool {
	payload, err := encode(msgType, data, infrastructure.GetTraceID(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal message",
			slog.String("type", string(msgType)),
			slog.String("error", err.Error()))
		return false
	}

	h.mu.RLock()
	running := h.running
	h.mu.RUnlock()
	if !running {
		return false
	}

	select {
	case h.broadcast <- outbound{msgType: msgType, payload: payload}:
		return true
	case <-h.quit:
		return false
	case <-ctx.Done():
		return false
	}
}

// OnSnapshot pushes a snapshot status change; it matches services.SnapshotListener
func (h *Hub) OnSnapshot(ctx context.Context, status domain.SnapshotStatus) {
	msgType := TypeSnapshotUpdated
	if status.Error != "" {
		msgType = TypeSnapshotError
	}
	h.Publish(ctx, msgType, status)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) enqueueRegister(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) enqueueUnregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

func encode(msgType events.MessageType, data interface{}, traceID string) ([]byte, error) {
	return json.Marshal(Message{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
		TraceID:   traceID,
	})
}
