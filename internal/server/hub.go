package server

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Tyrowin/gochat-presence/internal/metrics"
	"github.com/Tyrowin/gochat-presence/internal/protocol"
	"github.com/Tyrowin/gochat-presence/internal/registry"
)

// Hub tracks every open WebSocket connection, joined or not, and delivers
// outbound frames to them. Registration and unregistration are serialised
// through Run; pushes may come from any goroutine.
type Hub struct {
	clients    map[registry.ConnID]*Client
	register   chan *Client
	unregister chan *Client
	dispatcher Dispatcher
	mutex      sync.RWMutex
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewHub creates a Hub. logger and m may be nil. Call SetDispatcher before
// Run so that client frames have somewhere to go.
func NewHub(logger *zap.Logger, m *metrics.Metrics) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[registry.ConnID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		dispatcher: noopDispatcher{},
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		logger:     logger.Named("hub"),
		metrics:    m,
	}
}

// SetDispatcher installs the handler for inbound operations. It must be called
// before Run.
func (h *Hub) SetDispatcher(d Dispatcher) {
	if d == nil {
		d = noopDispatcher{}
	}
	h.dispatcher = d
}

// Register hands a new client to the hub. It returns false if the hub is
// shutting down.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.ctx.Done():
		return false
	}
}

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// PushToAll encodes the event once and queues it for every open connection.
// Connections whose buffers are full are dropped.
func (h *Hub) PushToAll(event string, payload any) {
	frame, err := protocol.Encode(event, payload)
	if err != nil {
		h.logger.Error("failed to encode broadcast", zap.String("event", event), zap.Error(err))
		return
	}

	clients := h.getClientSnapshot()
	h.logger.Debug("broadcasting", zap.String("event", event), zap.Int("targets", len(clients)))

	clientsToRemove := h.broadcastToClients(clients, frame)
	h.removeFailedClients(clientsToRemove)
}

// PushToOne queues the event for a single connection. It returns false if
// the connection is gone or could not accept the frame.
func (h *Hub) PushToOne(id registry.ConnID, event string, payload any) bool {
	frame, err := protocol.Encode(event, payload)
	if err != nil {
		h.logger.Error("failed to encode unicast", zap.String("event", event), zap.Error(err))
		return false
	}

	h.mutex.RLock()
	client, ok := h.clients[id]
	h.mutex.RUnlock()
	if !ok {
		h.metrics.PushDropped()
		return false
	}

	if !h.safeSend(client, frame) {
		h.metrics.PushDropped()
		h.removeFailedClients([]*Client{client})
		return false
	}
	return true
}

func (h *Hub) safeSend(client *Client, message []byte) bool {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("recovered from panic in safeSend", zap.Any("panic", r))
		}
	}()

	// Hold the lock during the entire send operation to prevent race conditions
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if _, exists := h.clients[client.id]; !exists || client.closed {
		return false
	}

	select {
	case client.send <- message:
		return true
	default:
		return false
	}
}

// Run starts the hub's main event loop, handling client registration and
// unregistration. It returns after Shutdown is called.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.shutdownClients()
			return

		case client := <-h.register:
			if client == nil {
				h.logger.Warn("received nil client registration; skipping")
				continue
			}
			h.attach(client)

		case client := <-h.unregister:
			if h.detach(client) {
				h.logger.Info("client unregistered",
					zap.String("conn_id", string(client.id)),
					zap.String("addr", client.addr),
					zap.Int("clients", h.ClientCount()))
			}
			// Clients dropped for a full buffer were detached already but
			// still need their disconnect processed.
			h.dispatcher.Disconnect(client.id)
		}
	}
}

func (h *Hub) attach(client *Client) {
	h.mutex.Lock()
	client.closed = false
	h.clients[client.id] = client
	clientCount := len(h.clients)
	h.mutex.Unlock()

	h.metrics.ConnectionOpened()
	h.logger.Info("client registered",
		zap.String("conn_id", string(client.id)),
		zap.String("addr", client.addr),
		zap.Int("clients", clientCount))

	h.wg.Add(2)
	go func() {
		defer h.wg.Done()
		client.writePump()
	}()
	go func() {
		defer h.wg.Done()
		client.readPump()
	}()
}

// detach removes the client and closes its send channel. It reports whether
// the client was still registered.
func (h *Hub) detach(client *Client) bool {
	h.mutex.Lock()
	current, ok := h.clients[client.id]
	if !ok || current != client {
		h.mutex.Unlock()
		return false
	}
	delete(h.clients, client.id)
	client.closed = true
	h.mutex.Unlock()

	// Close the channel after releasing the lock
	close(client.send)
	h.metrics.ConnectionClosed()
	return true
}

// getClientSnapshot returns a thread-safe snapshot of all current clients
func (h *Hub) getClientSnapshot() []*Client {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	return clients
}

// broadcastToClients sends the frame to every client and returns those that
// could not accept it.
func (h *Hub) broadcastToClients(clients []*Client, frame []byte) []*Client {
	var clientsToRemove []*Client

	for _, client := range clients {
		if !h.safeSend(client, frame) {
			h.metrics.PushDropped()
			clientsToRemove = append(clientsToRemove, client)
		}
	}

	return clientsToRemove
}

// removeFailedClients drops clients whose send buffer is full. Closing the
// send channel makes the write pump close the socket, which ends the read
// pump and reports the disconnect back through Run.
func (h *Hub) removeFailedClients(clientsToRemove []*Client) {
	for _, client := range clientsToRemove {
		if h.detach(client) {
			h.logger.Warn("client removed due to full send buffer",
				zap.String("conn_id", string(client.id)),
				zap.String("addr", client.addr))
		}
	}
}

// shutdownClients gracefully closes all active client connections
func (h *Hub) shutdownClients() {
	h.logger.Info("shutting down all client connections")

	clients := h.getClientSnapshot()
	for _, client := range clients {
		h.detach(client)
		if client.conn == nil {
			continue
		}
		if err := client.conn.Close(); err != nil && !isExpectedCloseError(err) {
			h.logger.Warn("error closing client connection",
				zap.String("addr", client.addr), zap.Error(err))
		}
	}

	h.logger.Info("closed client connections", zap.Int("count", len(clients)))
}

// Shutdown initiates graceful shutdown of the hub and waits for all goroutines to complete.
// It returns after all client connections are closed and goroutines have finished,
// or with context.DeadlineExceeded when the timeout is reached, including when
// Run was never started.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.logger.Info("initiating hub shutdown")

	h.cancel()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-h.done:
	case <-timer.C:
		h.logger.Warn("hub shutdown timeout reached before the run loop stopped")
		return context.DeadlineExceeded
	}

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.logger.Info("hub shutdown completed")
		return nil
	case <-timer.C:
		h.logger.Warn("hub shutdown timeout reached, some goroutines may still be running")
		return context.DeadlineExceeded
	}
}
