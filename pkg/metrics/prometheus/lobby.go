// Package prometheus implements the metrics interfaces with promauto
// collectors bound to the process registry. Constructors return nil when
// metrics are disabled; every method is nil-receiver safe.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/martengale/foxbox/pkg/metrics"
)

type lobbyMetrics struct {
	framesIn        *prometheus.CounterVec
	framesOut       *prometheus.CounterVec
	frameBytesIn    *prometheus.CounterVec
	frameBytesOut   *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	activeSessions  prometheus.Gauge
	activeRooms     prometheus.Gauge
	queueDrops      *prometheus.CounterVec
	reaped          *prometheus.CounterVec
	gamesStarted    prometheus.Counter
}

// NewLobbyMetrics creates the Prometheus-backed lobby metrics.
//
// Returns nil (disabled) if metrics.InitRegistry has not been called.
func NewLobbyMetrics() *lobbyMetrics {
	if !metrics.IsEnabled() {
		return nil
	}
	reg := metrics.GetRegistry()

	return &lobbyMetrics{
		framesIn: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "foxbox_frames_in_total",
				Help: "Inbound protocol frames by transport",
			},
			[]string{"transport"},
		),
		framesOut: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "foxbox_frames_out_total",
				Help: "Outbound protocol frames enqueued by transport",
			},
			[]string{"transport"},
		),
		frameBytesIn: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "foxbox_frame_bytes_in_total",
				Help: "Inbound frame payload bytes by transport",
			},
			[]string{"transport"},
		),
		frameBytesOut: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "foxbox_frame_bytes_out_total",
				Help: "Outbound frame payload bytes by transport",
			},
			[]string{"transport"},
		),
		processDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "foxbox_process_duration_seconds",
				Help:    "Message processor dispatch duration by action and outcome",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action", "outcome"},
		),
		activeSessions: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "foxbox_active_sessions",
				Help: "Currently registered sessions",
			},
		),
		activeRooms: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "foxbox_active_rooms",
				Help: "Currently registered rooms",
			},
		),
		queueDrops: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "foxbox_queue_drops_total",
				Help: "Frames dropped on session queue overflow by transport",
			},
			[]string{"transport"},
		),
		reaped: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "foxbox_reaped_total",
				Help: "Idle entities removed by the janitor",
			},
			[]string{"kind"},
		),
		gamesStarted: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "foxbox_games_started_total",
				Help: "Successful game-start negotiations",
			},
		),
	}
}

func (m *lobbyMetrics) RecordFrameIn(transport string, bytes int) {
	if m == nil {
		return
	}
	m.framesIn.WithLabelValues(transport).Inc()
	m.frameBytesIn.WithLabelValues(transport).Add(float64(bytes))
}

func (m *lobbyMetrics) RecordFrameOut(transport string, bytes int) {
	if m == nil {
		return
	}
	m.framesOut.WithLabelValues(transport).Inc()
	m.frameBytesOut.WithLabelValues(transport).Add(float64(bytes))
}

func (m *lobbyMetrics) RecordProcess(action, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.processDuration.WithLabelValues(action, outcome).Observe(duration.Seconds())
}

func (m *lobbyMetrics) SetActiveSessions(count int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(count))
}

func (m *lobbyMetrics) SetActiveRooms(count int) {
	if m == nil {
		return
	}
	m.activeRooms.Set(float64(count))
}

func (m *lobbyMetrics) RecordQueueDrop(transport string) {
	if m == nil {
		return
	}
	m.queueDrops.WithLabelValues(transport).Inc()
}

func (m *lobbyMetrics) RecordReaped(kind string, count int) {
	if m == nil {
		return
	}
	m.reaped.WithLabelValues(kind).Add(float64(count))
}

func (m *lobbyMetrics) RecordGameStarted() {
	if m == nil {
		return
	}
	m.gamesStarted.Inc()
}
