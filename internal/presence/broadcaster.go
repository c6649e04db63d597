// Package presence announces joins and departures to every connected client
// and republishes the online roster after each change.
package presence

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Tyrowin/gochat-presence/internal/metrics"
	"github.com/Tyrowin/gochat-presence/internal/protocol"
)

// Pusher fans an event out to every open connection. Targets that have gone
// away are skipped by the implementation.
type Pusher interface {
	PushToAll(event string, payload any)
}

// Roster supplies a point-in-time list of online usernames.
type Roster interface {
	SnapshotNames() []string
}

// Broadcaster publishes presence changes.
type Broadcaster struct {
	// rosterMu orders roster snapshots with their pushes, so the last
	// roster every client sees is the latest one.
	rosterMu sync.Mutex
	pusher   Pusher
	roster   Roster
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewBroadcaster creates a Broadcaster. logger and m may be nil.
func NewBroadcaster(pusher Pusher, roster Roster, logger *zap.Logger, m *metrics.Metrics) *Broadcaster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Broadcaster{
		pusher:  pusher,
		roster:  roster,
		logger:  logger.Named("presence"),
		metrics: m,
	}
}

// NotifyJoined announces username to everyone, then publishes the roster.
func (b *Broadcaster) NotifyJoined(username string) {
	b.pusher.PushToAll(protocol.EventUserConnected, protocol.UserPayload{Username: username})
	b.metrics.PresenceEvent(protocol.EventUserConnected)
	b.PublishRoster()
}

// NotifyLeft announces that username went offline, then publishes the roster.
func (b *Broadcaster) NotifyLeft(username string) {
	b.pusher.PushToAll(protocol.EventUserDisconnected, protocol.UserPayload{Username: username})
	b.metrics.PresenceEvent(protocol.EventUserDisconnected)
	b.PublishRoster()
}

// PublishRoster sends the full current roster to everyone. The snapshot is
// taken here, after whatever mutation triggered the call. Pusher must not
// block, since the snapshot lock is held across the push.
func (b *Broadcaster) PublishRoster() {
	b.rosterMu.Lock()
	names := b.roster.SnapshotNames()
	b.pusher.PushToAll(protocol.EventOnlineUsersUpdated, protocol.RosterPayload{Usernames: names})
	b.metrics.SetOnlineUsers(len(names))
	b.rosterMu.Unlock()

	b.metrics.PresenceEvent(protocol.EventOnlineUsersUpdated)
	b.logger.Debug("roster published", zap.Int("online", len(names)))
}
