package server

import (
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Tyrowin/gochat-presence/internal/config"
	"github.com/Tyrowin/gochat-presence/internal/protocol"
	"github.com/Tyrowin/gochat-presence/internal/registry"
)

// Client is one WebSocket connection. Its id is assigned at creation and is
// the key the relay core uses for every lookup.
type Client struct {
	id          registry.ConnID
	conn        *websocket.Conn
	send        chan []byte
	hub         *Hub
	addr        string
	closed      bool
	left        bool
	ws          config.WebSocketConfig
	rateLimiter *rateLimiter
	rateLimit   config.RateLimitConfig
	logger      *zap.Logger
}

// NewClient creates a Client for conn with a fresh connection id. conn may be
// nil in tests.
func NewClient(conn *websocket.Conn, hub *Hub, addr string, cfg *config.Config) *Client {
	if cfg == nil {
		cfg = config.Default()
	}
	if conn != nil {
		conn.SetReadLimit(cfg.WebSocket.MaxMessageSize)
	}

	id := registry.ConnID(uuid.NewString())
	return &Client{
		id:          id,
		conn:        conn,
		send:        make(chan []byte, cfg.WebSocket.SendBuffer),
		hub:         hub,
		addr:        addr,
		ws:          cfg.WebSocket,
		rateLimiter: newRateLimiter(cfg.RateLimit.Burst, cfg.RateLimit.RefillInterval),
		rateLimit:   cfg.RateLimit,
		logger:      hub.logger.With(zap.String("conn_id", string(id)), zap.String("addr", addr)),
	}
}

// setupReadConnection configures read deadlines and pong handler for the WebSocket connection
func (c *Client) setupReadConnection() {
	if err := c.conn.SetReadDeadline(time.Now().Add(c.ws.PongWait)); err != nil {
		c.logger.Warn("error setting initial read deadline", zap.Error(err))
	}
	c.conn.SetPongHandler(func(string) error {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.ws.PongWait)); err != nil {
			c.logger.Warn("error setting read deadline in pong handler", zap.Error(err))
		}
		return nil
	})
}

// logReadError records why the read loop ended.
func (c *Client) logReadError(err error) {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		c.logger.Warn("message exceeded maximum size", zap.Int64("max_bytes", c.ws.MaxMessageSize))
	case websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived):
		c.logger.Info("client disconnected", zap.Error(err))
	case errors.Is(err, io.EOF) || isExpectedCloseError(err):
		c.logger.Info("client connection closed", zap.Error(err))
	case websocket.IsUnexpectedCloseError(err,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
		websocket.CloseMessageTooBig):
		c.logger.Warn("unexpected websocket close", zap.Error(err))
	default:
		c.logger.Info("websocket read ended", zap.Error(err))
	}
}

// checkRateLimit verifies if the client has exceeded rate limits
// and returns true if the message should be processed
func (c *Client) checkRateLimit() bool {
	if c.rateLimiter != nil && !c.rateLimiter.allow() {
		c.logger.Warn("rate limit exceeded; discarding frame",
			zap.Int("burst", c.rateLimit.Burst),
			zap.Duration("interval", c.rateLimit.RefillInterval))
		c.hub.metrics.FrameRejected("rate_limited")
		return false
	}
	return true
}

// processMessage decodes a frame and dispatches it. It returns false when
// the client has left and the connection should be wound down.
func (c *Client) processMessage(rawMessage []byte) bool {
	in, err := protocol.DecodeInbound(rawMessage)
	if err != nil {
		reason := "malformed"
		if errors.Is(err, protocol.ErrUnknownEvent) {
			reason = "unknown_event"
		}
		c.logger.Warn("invalid frame", zap.String("reason", reason), zap.Error(err))
		c.hub.metrics.FrameRejected(reason)
		return true
	}

	d := c.hub.dispatcher
	switch in.Event {
	case protocol.EventJoin:
		d.Join(c.id, in.Join.Username)
	case protocol.EventLeave:
		if d.Leave(c.id, in.Leave.Username) {
			c.left = true
			return false
		}
	case protocol.EventSendMessage:
		d.SendMessage(c.id, in.SendMessage.ReceiverUsername, in.SendMessage.Content)
	}
	return true
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.ctx.Done():
		}
		// After a leave the write pump flushes what is queued and closes the
		// socket itself.
		if !c.left {
			c.closeConnection()
		}
	}()

	c.setupReadConnection()

	for {
		_, rawMessage, err := c.conn.ReadMessage()
		if err != nil {
			c.logReadError(err)
			return
		}

		if !c.checkRateLimit() {
			continue
		}

		if !c.processMessage(rawMessage) {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.ws.PingInterval)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for c.processWriteEvent(ticker) {
	}
}

// processWriteEvent waits for the next write event and returns false when the
// pump should stop processing.
func (c *Client) processWriteEvent(ticker *time.Ticker) bool {
	select {
	case message, ok := <-c.send:
		return c.handleMessage(message, ok)
	case <-ticker.C:
		return c.handlePing()
	}
}

// closeConnection safely closes the WebSocket connection with proper error handling
func (c *Client) closeConnection() {
	if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
		c.logger.Warn("error closing connection", zap.Error(err))
	}
}

// handleMessage processes outgoing messages and returns false if the connection should be closed
func (c *Client) handleMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.ws.WriteWait)); err != nil {
		c.logger.Warn("error setting write deadline", zap.Error(err))
		return false
	}

	if !ok {
		return c.writeCloseMessage()
	}

	if !c.writeTextMessage(message) {
		return false
	}
	return c.writeQueuedMessages()
}

// writeCloseMessage sends a close message to the client
func (c *Client) writeCloseMessage() bool {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := c.conn.WriteMessage(websocket.CloseMessage, msg); err != nil && !isExpectedCloseError(err) {
		c.logger.Debug("error writing close message", zap.Error(err))
	}
	return false
}

// writeTextMessage writes one envelope as its own text frame.
func (c *Client) writeTextMessage(message []byte) bool {
	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		if !isExpectedCloseError(err) {
			c.logger.Warn("error writing message", zap.Error(err))
		}
		return false
	}
	return true
}

// writeQueuedMessages flushes frames that queued up while the last one was
// being written. A closed channel ends the pump after the flush.
func (c *Client) writeQueuedMessages() bool {
	n := len(c.send)
	for i := 0; i < n; i++ {
		message, ok := <-c.send
		if !ok {
			return c.writeCloseMessage()
		}
		if !c.writeTextMessage(message) {
			return false
		}
	}
	return true
}

// handlePing sends a ping message to keep the connection alive
func (c *Client) handlePing() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.ws.WriteWait)); err != nil {
		c.logger.Warn("error setting write deadline for ping", zap.Error(err))
		return false
	}
	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		if !isExpectedCloseError(err) {
			c.logger.Warn("error writing ping", zap.Error(err))
		}
		return false
	}
	return true
}
