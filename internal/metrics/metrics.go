// Package metrics exposes Prometheus collectors for the relay. A nil *Metrics
// is valid and records nothing, so components can be built without one.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gochat"

// Metrics holds the relay's collectors and the registry they are bound to.
type Metrics struct {
	registry *prometheus.Registry

	connections    prometheus.Gauge
	onlineUsers    prometheus.Gauge
	messagesRouted *prometheus.CounterVec
	presenceEvents *prometheus.CounterVec
	pushDropped    prometheus.Counter
	framesRejected *prometheus.CounterVec
}

// New creates the collectors on a private registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections",
			Help:      "Open WebSocket connections, joined or not.",
		}),
		onlineUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_users",
			Help:      "Connections that have joined with a username.",
		}),
		messagesRouted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_routed_total",
			Help:      "Direct messages processed, by outcome.",
		}, []string{"outcome"}),
		presenceEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "presence_events_total",
			Help:      "Presence broadcasts sent, by event.",
		}, []string{"event"}),
		pushDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "push_dropped_total",
			Help:      "Frames not queued because the target was gone or its buffer was full.",
		}),
		framesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_rejected_total",
			Help:      "Inbound frames discarded before reaching the relay, by reason.",
		}, []string{"reason"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.connections,
		m.onlineUsers,
		m.messagesRouted,
		m.presenceEvents,
		m.pushDropped,
		m.framesRejected,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.connections.Inc()
}

func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.connections.Dec()
}

// SetOnlineUsers records the current roster size.
func (m *Metrics) SetOnlineUsers(n int) {
	if m == nil {
		return
	}
	m.onlineUsers.Set(float64(n))
}

// MessageRouted counts a routing attempt under outcome.
func (m *Metrics) MessageRouted(outcome string) {
	if m == nil {
		return
	}
	m.messagesRouted.WithLabelValues(outcome).Inc()
}

// PresenceEvent counts a presence broadcast.
func (m *Metrics) PresenceEvent(event string) {
	if m == nil {
		return
	}
	m.presenceEvents.WithLabelValues(event).Inc()
}

func (m *Metrics) PushDropped() {
	if m == nil {
		return
	}
	m.pushDropped.Inc()
}

// FrameRejected counts an inbound frame dropped at the transport.
func (m *Metrics) FrameRejected(reason string) {
	if m == nil {
		return
	}
	m.framesRejected.WithLabelValues(reason).Inc()
}
