// Package metrics exposes the tunnel's metrics stream two ways: as
// Prometheus gauges scraped over HTTP (the operator's view), and as a typed
// event channel (the dashboard consumer's view).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dyastin0/wormhole-client/internal/wire"
)

var (
	gaugeIngress = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wormhole_ingress_bytes",
		Help: "Bytes received from the public side, as last reported by the server.",
	})
	gaugeEgress = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wormhole_egress_bytes",
		Help: "Bytes sent to the public side, as last reported by the server.",
	})
	gaugeUptimeSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wormhole_uptime_seconds",
		Help: "Tunnel uptime in seconds, as last reported by the server.",
	})
	counterConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wormhole_connection_count",
		Help: "Lifetime count of forwarded connections, as last reported by the server.",
	})
	gaugeActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wormhole_active_connections",
		Help: "Currently open forwarded connections, as last reported by the server.",
	})

	gaugeLocalActiveForwards = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wormhole_local_active_forwards",
		Help: "Forwarded streams currently piping bytes to the local target.",
	})
	counterLocalForwardsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wormhole_local_forwards_total",
		Help: "Total Access streams accepted and forwarded to the local target.",
	})
	counterLocalDialErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wormhole_local_dial_errors_total",
		Help: "Total failures dialing the local target for a forwarded stream.",
	})
)

// Event is one sample published off a Metrics wire frame, decoupled from the
// wire representation so the dashboard consumer doesn't need to import wire.
type Event struct {
	Ingress           uint64
	Egress            uint64
	Uptime            time.Duration
	ConnectionCount   uint64
	ActiveConnections uint32
}

// Publisher fans a single producer (the metrics consumer reading the
// server's metrics stream) out to at most one subscriber (a dashboard), per
// the one-producer-one-consumer contract. It always updates the Prometheus
// gauges regardless of whether anything is subscribed to the channel.
type Publisher struct {
	ch chan Event
}

// NewPublisher allocates a Publisher with a small buffer so a slow or
// absent subscriber never blocks the metrics read loop.
func NewPublisher() *Publisher {
	return &Publisher{ch: make(chan Event, 8)}
}

// Publish records m into the Prometheus gauges and offers it to the
// subscriber channel. If the channel is full (no subscriber draining it),
// the sample is dropped from the channel but still lands in Prometheus.
func (p *Publisher) Publish(m wire.Metrics) {
	gaugeIngress.Set(float64(m.Ingress))
	gaugeEgress.Set(float64(m.Egress))
	gaugeUptimeSeconds.Set(time.Duration(m.Uptime).Seconds())
	counterConnections.Set(float64(m.ConnectionCount))
	gaugeActiveConnections.Set(float64(m.ActiveConnections))

	ev := Event{
		Ingress:           m.Ingress,
		Egress:            m.Egress,
		Uptime:            time.Duration(m.Uptime),
		ConnectionCount:   m.ConnectionCount,
		ActiveConnections: m.ActiveConnections,
	}

	select {
	case p.ch <- ev:
	default:
	}
}

// Events returns the channel subscribers read from.
func (p *Publisher) Events() <-chan Event {
	return p.ch
}

// ForwardOpened records the start of one local-target forward.
func ForwardOpened() {
	counterLocalForwardsTotal.Inc()
	gaugeLocalActiveForwards.Inc()
}

// ForwardClosed records the end of one local-target forward.
func ForwardClosed() {
	gaugeLocalActiveForwards.Dec()
}

// DialFailed records a failure to reach the local target.
func DialFailed() {
	counterLocalDialErrors.Inc()
}
