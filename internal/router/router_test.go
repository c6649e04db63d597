package router

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tyrowin/gochat-presence/internal/protocol"
	"github.com/Tyrowin/gochat-presence/internal/registry"
)

type unicast struct {
	id      registry.ConnID
	event   string
	payload any
}

type fakePusher struct {
	mu     sync.Mutex
	sent   []unicast
	reject map[registry.ConnID]bool
}

func (p *fakePusher) PushToOne(id registry.ConnID, event string, payload any) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reject[id] {
		return false
	}
	p.sent = append(p.sent, unicast{id, event, payload})
	return true
}

var fixedTime = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func newTestRouter(reg *registry.Registry, p *fakePusher) *Router {
	return New(reg, p, nil, nil, WithClock(func() time.Time { return fixedTime }))
}

func TestRouteDeliversToReceiverOnly(t *testing.T) {
	reg := registry.New()
	reg.Add("c1", "alice")
	reg.Add("c2", "bob")
	reg.Add("c3", "carol")
	p := &fakePusher{}

	outcome := newTestRouter(reg, p).Route("c1", "bob", "hi")

	assert.Equal(t, Delivered, outcome)
	require.Len(t, p.sent, 1)
	assert.Equal(t, registry.ConnID("c2"), p.sent[0].id)
	assert.Equal(t, protocol.EventMessageReceived, p.sent[0].event)
	assert.Equal(t, protocol.MessageReceivedPayload{
		SenderUsername: "alice",
		Content:        "hi",
		Timestamp:      fixedTime,
	}, p.sent[0].payload)
}

func TestRouteUnknownReceiverIsDropped(t *testing.T) {
	reg := registry.New()
	reg.Add("c1", "alice")
	p := &fakePusher{}

	assert.NotPanics(t, func() {
		assert.Equal(t, UnknownReceiver, newTestRouter(reg, p).Route("c1", "nobody", "hi"))
	})
	assert.Empty(t, p.sent)
}

func TestRouteUnknownSenderIsDropped(t *testing.T) {
	reg := registry.New()
	reg.Add("c2", "bob")
	p := &fakePusher{}

	assert.Equal(t, UnknownSender, newTestRouter(reg, p).Route("ghost", "bob", "hi"))
	assert.Empty(t, p.sent)
}

func TestRouteReceiverGone(t *testing.T) {
	reg := registry.New()
	reg.Add("c1", "alice")
	reg.Add("c2", "bob")
	p := &fakePusher{reject: map[registry.ConnID]bool{"c2": true}}

	assert.Equal(t, ReceiverGone, newTestRouter(reg, p).Route("c1", "bob", "hi"))
	assert.Empty(t, p.sent)
}

func TestRouteDuplicateNameGoesToFirstJoined(t *testing.T) {
	reg := registry.New()
	reg.Add("c1", "alice")
	reg.Add("c2", "bob")
	reg.Add("c3", "bob")
	p := &fakePusher{}

	newTestRouter(reg, p).Route("c1", "bob", "which one?")

	require.Len(t, p.sent, 1)
	assert.Equal(t, registry.ConnID("c2"), p.sent[0].id)
}

func TestRouteToSelf(t *testing.T) {
	reg := registry.New()
	reg.Add("c1", "alice")
	p := &fakePusher{}

	assert.Equal(t, Delivered, newTestRouter(reg, p).Route("c1", "alice", "note to self"))
	require.Len(t, p.sent, 1)
	assert.Equal(t, registry.ConnID("c1"), p.sent[0].id)
}

func TestNewMessageDefaultsTimestamp(t *testing.T) {
	before := time.Now().UTC()
	msg := NewMessage("alice", "bob", "hi", nil)

	assert.Equal(t, "alice", msg.SenderName)
	assert.Equal(t, "bob", msg.ReceiverName)
	assert.Equal(t, "hi", msg.Content)
	assert.False(t, msg.Timestamp.Before(before))
	assert.Equal(t, time.UTC, msg.Timestamp.Location())
}
