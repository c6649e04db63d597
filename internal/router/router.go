// Package router delivers direct messages between joined users. Delivery is
// best effort and at most once: a message to a user who is not online is
// dropped without telling the sender.
package router

import (
	"time"

	"go.uber.org/zap"

	"github.com/Tyrowin/gochat-presence/internal/metrics"
	"github.com/Tyrowin/gochat-presence/internal/protocol"
	"github.com/Tyrowin/gochat-presence/internal/registry"
)

// Outcome describes what happened to a routed message.
type Outcome string

const (
	Delivered       Outcome = "delivered"
	UnknownSender   Outcome = "unknown_sender"
	UnknownReceiver Outcome = "unknown_receiver"
	// ReceiverGone means the receiver was resolved but its connection closed
	// before the frame could be queued.
	ReceiverGone Outcome = "receiver_gone"
)

// Directory resolves connections and names.
type Directory interface {
	Lookup(id registry.ConnID) (string, bool)
	FindConnectionByName(username string) (registry.ConnID, bool)
}

// Pusher queues one event for one connection and reports whether it was
// accepted.
type Pusher interface {
	PushToOne(id registry.ConnID, event string, payload any) bool
}

// Option configures a Router.
type Option func(*Router)

// WithClock overrides the clock used to stamp messages.
func WithClock(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

// Router resolves receivers and forwards messages.
type Router struct {
	dir     Directory
	pusher  Pusher
	now     func() time.Time
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New creates a Router. logger and m may be nil.
func New(dir Directory, pusher Pusher, logger *zap.Logger, m *metrics.Metrics, opts ...Option) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{
		dir:     dir,
		pusher:  pusher,
		now:     time.Now,
		logger:  logger.Named("router"),
		metrics: m,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route forwards content from the user on sender to the first connection
// registered as receiverName. Every failure mode is a silent drop; the
// returned Outcome is informational.
func (r *Router) Route(sender registry.ConnID, receiverName, content string) Outcome {
	outcome := r.route(sender, receiverName, content)
	r.metrics.MessageRouted(string(outcome))
	return outcome
}

func (r *Router) route(sender registry.ConnID, receiverName, content string) Outcome {
	senderName, ok := r.dir.Lookup(sender)
	if !ok {
		r.logger.Debug("dropping message from connection that has not joined",
			zap.String("conn_id", string(sender)))
		return UnknownSender
	}

	target, ok := r.dir.FindConnectionByName(receiverName)
	if !ok {
		r.logger.Debug("dropping message for offline user",
			zap.String("sender", senderName), zap.String("receiver", receiverName))
		return UnknownReceiver
	}

	msg := NewMessage(senderName, receiverName, content, r.now)
	delivered := r.pusher.PushToOne(target, protocol.EventMessageReceived, protocol.MessageReceivedPayload{
		SenderUsername: msg.SenderName,
		Content:        msg.Content,
		Timestamp:      msg.Timestamp,
	})
	if !delivered {
		return ReceiverGone
	}

	r.logger.Debug("message delivered",
		zap.String("sender", msg.SenderName),
		zap.String("receiver", msg.ReceiverName),
		zap.String("conn_id", string(target)),
		zap.Time("timestamp", msg.Timestamp))
	return Delivered
}
