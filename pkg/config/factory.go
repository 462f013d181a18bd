package config

import (
	"github.com/martengale/foxbox/internal/processor"
	"github.com/martengale/foxbox/internal/session"
	"github.com/martengale/foxbox/pkg/adapter"
	"github.com/martengale/foxbox/pkg/adapter/bluebox"
	"github.com/martengale/foxbox/pkg/adapter/sfstcp"
	"github.com/martengale/foxbox/pkg/metrics"
	prom "github.com/martengale/foxbox/pkg/metrics/prometheus"
)

// MetricsResult carries the outcome of metrics initialization. When metrics
// are disabled every field is nil; the nil implementations are no-ops, so
// callers pass them through unguarded.
type MetricsResult struct {
	// Server is the /metrics HTTP server, nil when disabled.
	Server *metrics.Server

	// Lobby observes the processor and registries.
	Lobby metrics.LobbyMetrics

	// Transport observes the protocol adapters.
	Transport metrics.TransportMetrics
}

// InitializeMetrics sets up the Prometheus registry, collectors, and
// metrics server according to the configuration.
func InitializeMetrics(cfg *Config) MetricsResult {
	if !cfg.Metrics.Enabled {
		return MetricsResult{}
	}

	metrics.InitRegistry()

	return MetricsResult{
		Server:    metrics.NewServer(cfg.Metrics.Port),
		Lobby:     prom.NewLobbyMetrics(),
		Transport: prom.NewTransportMetrics(),
	}
}

// CreateAdapters builds the enabled protocol adapters from the
// configuration. Both transports share the processor and session registry;
// a config with both transports disabled yields an empty slice, which the
// server treats as a startup error.
func CreateAdapters(cfg *Config, proc *processor.Processor, sessions *session.Registry, m metrics.TransportMetrics) []adapter.Adapter {
	var adapters []adapter.Adapter

	if cfg.Protocol.BlueBoxEnabled() {
		// The HTTP tunnel keeps its own default timeouts; the protocol
		// read timeout is TCP idle semantics and does not apply to
		// short-lived poll requests.
		adapters = append(adapters, bluebox.New(bluebox.Config{
			Port: cfg.Ports.BlueBoxHTTP,
		}, proc, sessions, m))
	}

	if cfg.Protocol.DirectEnabled() {
		adapters = append(adapters, sfstcp.New(sfstcp.Config{
			Port:           cfg.Ports.SFS2XDirect,
			MaxConnections: cfg.Protocol.MaxConnections,
			MaxFrameSize:   int(cfg.Protocol.MaxFrameSize),
			Timeouts: sfstcp.TimeoutsConfig{
				Read:     cfg.Protocol.ReadTimeout,
				Write:    cfg.Protocol.WriteTimeout,
				Shutdown: cfg.ShutdownTimeout,
			},
		}, proc, sessions, m))
	}

	return adapters
}
