// Package metrics holds the relay's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "labwatch"

// Send failure reasons.
const (
	ReasonBackpressure = "backpressure"
	ReasonClosed       = "closed"
)

type Metrics struct {
	routed      *prometheus.CounterVec
	misses      *prometheus.CounterVec
	sendFails   *prometheus.CounterVec
	lifecycle   *prometheus.CounterVec
	connections prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		routed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signal_routed_total",
			Help:      "Signaling messages delivered to at least one recipient.",
		}, []string{"event"}),
		misses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signal_misses_total",
			Help:      "Signaling messages with no live destination.",
		}, []string{"event"}),
		sendFails: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "send_failures_total",
			Help:      "Frames that could not be queued on a connection.",
		}, []string{"reason"}),
		lifecycle: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lifecycle_events_total",
			Help:      "Session lifecycle events handled.",
		}, []string{"event"}),
		connections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections",
			Help:      "Live signaling connections.",
		}),
	}
}

func (m *Metrics) Routed(event string) {
	if m == nil {
		return
	}
	m.routed.WithLabelValues(event).Inc()
}

func (m *Metrics) Miss(event string) {
	if m == nil {
		return
	}
	m.misses.WithLabelValues(event).Inc()
}

func (m *Metrics) SendFailed(reason string) {
	if m == nil {
		return
	}
	m.sendFails.WithLabelValues(reason).Inc()
}

func (m *Metrics) Lifecycle(event string) {
	if m == nil {
		return
	}
	m.lifecycle.WithLabelValues(event).Inc()
}

func (m *Metrics) ConnOpened() {
	if m == nil {
		return
	}
	m.connections.Inc()
}

func (m *Metrics) ConnClosed() {
	if m == nil {
		return
	}
	m.connections.Dec()
}
