package config

import (
	"strings"
	"time"

	"github.com/martengale/foxbox/internal/bytesize"
	"github.com/martengale/foxbox/internal/lobby"
	"github.com/martengale/foxbox/internal/session"
	"github.com/martengale/foxbox/pkg/api"
)

// ApplyDefaults sets default values for any unspecified configuration
// fields.
//
// Called after loading configuration from file and environment variables.
// Zero values (0, "", false, nil) are replaced; explicit values are kept.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyShutdownTimeoutDefaults(cfg)
	applyPortsDefaults(&cfg.Ports)
	applyProtocolDefaults(&cfg.Protocol)
	applyTimeoutsDefaults(&cfg.Timeouts)
	applyLobbyDefaults(&cfg.Lobby)
	applyMetricsDefaults(&cfg.Metrics)
	applyAPIDefaults(&cfg.API)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyTelemetryDefaults sets OpenTelemetry defaults.
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	// Enabled defaults to false (opt-in for telemetry)

	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}

	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}

	applyProfilingDefaults(&cfg.Profiling)
}

// applyProfilingDefaults sets Pyroscope profiling defaults.
func applyProfilingDefaults(cfg *ProfilingConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:4040"
	}

	if len(cfg.ProfileTypes) == 0 {
		cfg.ProfileTypes = []string{
			"cpu",
			"alloc_objects",
			"alloc_space",
			"inuse_objects",
			"inuse_space",
			"goroutines",
		}
	}
}

// applyShutdownTimeoutDefaults sets the shutdown timeout default.
func applyShutdownTimeoutDefaults(cfg *Config) {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
}

// applyPortsDefaults sets listener port defaults.
func applyPortsDefaults(cfg *PortsConfig) {
	if cfg.BlueBoxHTTP == 0 {
		cfg.BlueBoxHTTP = 8080
	}
	if cfg.SFS2XDirect == 0 {
		cfg.SFS2XDirect = 9933
	}
}

// applyProtocolDefaults sets wire-protocol tunable defaults.
func applyProtocolDefaults(cfg *ProtocolConfig) {
	if cfg.MaxFrameSize == 0 {
		cfg.MaxFrameSize = 16 * bytesize.MiB
	}
	if cfg.MaxConnections == 0 {
		cfg.MaxConnections = 1024
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 90 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
}

// applyTimeoutsDefaults sets janitor defaults.
func applyTimeoutsDefaults(cfg *TimeoutsConfig) {
	if cfg.SessionIdle == 0 {
		cfg.SessionIdle = 30 * time.Minute
	}
	if cfg.RoomIdle == 0 {
		cfg.RoomIdle = 60 * time.Minute
	}
	if cfg.ReapInterval == 0 {
		cfg.ReapInterval = 60 * time.Second
	}
}

// applyLobbyDefaults sets room registry defaults.
func applyLobbyDefaults(cfg *LobbyConfig) {
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = lobby.DefaultGroup
	}
	if cfg.QueueLimit == 0 {
		cfg.QueueLimit = session.DefaultQueueLimit
	}
}

// applyMetricsDefaults sets metrics defaults.
func applyMetricsDefaults(cfg *MetricsConfig) {
	// Enabled defaults to false (opt-in for metrics)
	if cfg.Enabled && cfg.Port == 0 {
		cfg.Port = 9090
	}
}

// applyAPIDefaults sets admin API server defaults. Mirrors the defaults
// the API server applies itself; kept in sync so saved config files show
// the effective values.
func applyAPIDefaults(cfg *api.APIConfig) {
	if cfg.Port == 0 {
		cfg.Port = 8081
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "foxbox"
	}
	if cfg.Auth.AccessTokenDuration == 0 {
		cfg.Auth.AccessTokenDuration = 15 * time.Minute
	}
	if cfg.Auth.RefreshTokenDuration == 0 {
		cfg.Auth.RefreshTokenDuration = 7 * 24 * time.Hour
	}
	if cfg.Admin.Username == "" {
		cfg.Admin.Username = "admin"
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
//   - Documentation
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
