package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/martengale/foxbox/pkg/metrics"
)

type transportMetrics struct {
	connectionsAccepted    prometheus.Counter
	connectionsClosed      prometheus.Counter
	connectionsForceClosed prometheus.Counter
	activeConnections      prometheus.Gauge
	blueboxRequests        *prometheus.CounterVec
}

// NewTransportMetrics creates the Prometheus-backed transport metrics.
//
// Returns nil (disabled) if metrics.InitRegistry has not been called.
func NewTransportMetrics() *transportMetrics {
	if !metrics.IsEnabled() {
		return nil
	}
	reg := metrics.GetRegistry()

	return &transportMetrics{
		connectionsAccepted: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "foxbox_tcp_connections_accepted_total",
				Help: "TCP connections accepted",
			},
		),
		connectionsClosed: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "foxbox_tcp_connections_closed_total",
				Help: "TCP connections closed",
			},
		),
		connectionsForceClosed: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "foxbox_tcp_connections_force_closed_total",
				Help: "TCP connections force-closed after the shutdown timeout",
			},
		),
		activeConnections: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "foxbox_tcp_active_connections",
				Help: "Currently open TCP connections",
			},
		),
		blueboxRequests: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "foxbox_bluebox_requests_total",
				Help: "BlueBox requests by command and outcome",
			},
			[]string{"command", "outcome"},
		),
	}
}

func (m *transportMetrics) RecordConnectionAccepted() {
	if m == nil {
		return
	}
	m.connectionsAccepted.Inc()
}

func (m *transportMetrics) RecordConnectionClosed() {
	if m == nil {
		return
	}
	m.connectionsClosed.Inc()
}

func (m *transportMetrics) RecordConnectionForceClosed() {
	if m == nil {
		return
	}
	m.connectionsForceClosed.Inc()
}

func (m *transportMetrics) SetActiveConnections(count int32) {
	if m == nil {
		return
	}
	m.activeConnections.Set(float64(count))
}

func (m *transportMetrics) RecordBlueBoxRequest(command, outcome string) {
	if m == nil {
		return
	}
	m.blueboxRequests.WithLabelValues(command, outcome).Inc()
}
