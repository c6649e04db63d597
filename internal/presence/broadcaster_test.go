package presence

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tyrowin/gochat-presence/internal/protocol"
	"github.com/Tyrowin/gochat-presence/internal/registry"
)

type pushed struct {
	event   string
	payload any
}

type recordingPusher struct {
	mu     sync.Mutex
	pushes []pushed
}

func (p *recordingPusher) PushToAll(event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushes = append(p.pushes, pushed{event, payload})
}

func TestNotifyJoinedPublishesEventThenRoster(t *testing.T) {
	reg := registry.New()
	pusher := &recordingPusher{}
	b := NewBroadcaster(pusher, reg, nil, nil)

	reg.Add("c1", "alice")
	b.NotifyJoined("alice")

	require.Len(t, pusher.pushes, 2)
	assert.Equal(t, protocol.EventUserConnected, pusher.pushes[0].event)
	assert.Equal(t, protocol.UserPayload{Username: "alice"}, pusher.pushes[0].payload)
	assert.Equal(t, protocol.EventOnlineUsersUpdated, pusher.pushes[1].event)
	assert.Equal(t, protocol.RosterPayload{Usernames: []string{"alice"}}, pusher.pushes[1].payload)
}

func TestNotifyLeftPublishesEventThenRoster(t *testing.T) {
	reg := registry.New()
	pusher := &recordingPusher{}
	b := NewBroadcaster(pusher, reg, nil, nil)

	reg.Add("c1", "alice")
	reg.Add("c2", "bob")
	reg.Remove("c1")
	b.NotifyLeft("alice")

	require.Len(t, pusher.pushes, 2)
	assert.Equal(t, protocol.EventUserDisconnected, pusher.pushes[0].event)
	assert.Equal(t, protocol.UserPayload{Username: "alice"}, pusher.pushes[0].payload)
	assert.Equal(t, protocol.RosterPayload{Usernames: []string{"bob"}}, pusher.pushes[1].payload)
}

func TestPublishRosterEmpty(t *testing.T) {
	pusher := &recordingPusher{}
	NewBroadcaster(pusher, registry.New(), nil, nil).PublishRoster()

	require.Len(t, pusher.pushes, 1)
	roster, ok := pusher.pushes[0].payload.(protocol.RosterPayload)
	require.True(t, ok)
	assert.NotNil(t, roster.Usernames)
	assert.Empty(t, roster.Usernames)
}
