// Package relay is the boundary between the WebSocket transport and the
// presence core. The transport calls Join, Leave, SendMessage and Disconnect;
// the service updates the registry and drives the broadcaster and router.
package relay

import (
	"go.uber.org/zap"

	"github.com/Tyrowin/gochat-presence/internal/metrics"
	"github.com/Tyrowin/gochat-presence/internal/presence"
	"github.com/Tyrowin/gochat-presence/internal/registry"
	"github.com/Tyrowin/gochat-presence/internal/router"
)

// Pusher is the outbound side of the transport.
type Pusher interface {
	presence.Pusher
	router.Pusher
}

// Service implements the inbound operations of the relay. It is safe for
// concurrent use by every connection handler.
type Service struct {
	registry    *registry.Registry
	broadcaster *presence.Broadcaster
	router      *router.Router
	logger      *zap.Logger
}

// NewService wires a registry to the given pusher. logger and m may be nil.
func NewService(reg *registry.Registry, pusher Pusher, logger *zap.Logger, m *metrics.Metrics, opts ...router.Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		registry:    reg,
		broadcaster: presence.NewBroadcaster(pusher, reg, logger, m),
		router:      router.New(reg, pusher, logger, m, opts...),
		logger:      logger.Named("relay"),
	}
}

// Join registers username for the connection and announces it. Joining again
// on the same connection renames it.
func (s *Service) Join(id registry.ConnID, username string) {
	s.registry.Add(id, username)
	s.logger.Info("user joined", zap.String("conn_id", string(id)), zap.String("username", username))
	s.broadcaster.NotifyJoined(username)
}

// Leave removes the connection from the roster. The announced name is the
// one the connection joined with; the client-supplied name is only logged.
// It reports whether the connection had joined.
func (s *Service) Leave(id registry.ConnID, username string) bool {
	name, ok := s.registry.Remove(id)
	if !ok {
		s.logger.Debug("leave from connection that has not joined",
			zap.String("conn_id", string(id)), zap.String("username", username))
		return false
	}
	if name != username {
		s.logger.Warn("leave name does not match joined name",
			zap.String("conn_id", string(id)), zap.String("joined", name), zap.String("given", username))
	}
	s.logger.Info("user left", zap.String("conn_id", string(id)), zap.String("username", name))
	s.broadcaster.NotifyLeft(name)
	return true
}

// SendMessage routes a direct message from the connection's user.
func (s *Service) SendMessage(id registry.ConnID, receiverName, content string) router.Outcome {
	outcome := s.router.Route(id, receiverName, content)
	if outcome != router.Delivered {
		s.logger.Debug("message not delivered",
			zap.String("conn_id", string(id)),
			zap.String("receiver", receiverName),
			zap.String("outcome", string(outcome)))
	}
	return outcome
}

// Disconnect handles a connection that has closed, with or without an
// explicit leave. It is safe to call more than once.
func (s *Service) Disconnect(id registry.ConnID) {
	name, ok := s.registry.Remove(id)
	if !ok {
		return
	}
	s.logger.Info("user disconnected", zap.String("conn_id", string(id)), zap.String("username", name))
	s.broadcaster.NotifyLeft(name)
}

// Online returns the current roster.
func (s *Service) Online() []string {
	return s.registry.SnapshotNames()
}
