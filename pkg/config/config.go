package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/martengale/foxbox/internal/bytesize"
	"github.com/martengale/foxbox/pkg/api"
)

// Config represents the foxbox server configuration.
//
// This structure captures the static configuration of the server:
//   - Logging configuration
//   - Telemetry/tracing configuration
//   - Listener ports and protocol tunables
//   - Idle timeouts driving the janitor
//   - Lobby behavior (default group, outbound queue limit)
//   - Metrics and admin API servers
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (FOXBOX_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Telemetry controls OpenTelemetry distributed tracing
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0" yaml:"shutdown_timeout"`

	// Ports holds the listener ports for the two player-facing transports
	Ports PortsConfig `mapstructure:"ports" yaml:"ports"`

	// Protocol contains wire-protocol tunables shared by both transports
	Protocol ProtocolConfig `mapstructure:"protocol" yaml:"protocol"`

	// Timeouts drives the janitor: idle cutoffs and the reap cadence
	Timeouts TimeoutsConfig `mapstructure:"timeouts" yaml:"timeouts"`

	// Lobby contains room registry behavior
	Lobby LobbyConfig `mapstructure:"lobby" yaml:"lobby"`

	// Metrics contains Prometheus metrics server configuration
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// API contains admin REST API server configuration
	API api.APIConfig `mapstructure:"api" yaml:"api"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// TelemetryConfig controls OpenTelemetry distributed tracing.
// When enabled, trace data is exported to an OTLP-compatible collector
// (e.g., Jaeger, Tempo, or any OTLP receiver).
type TelemetryConfig struct {
	// Enabled controls whether distributed tracing is enabled
	// Default: false (opt-in for telemetry)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the OTLP collector endpoint (host:port)
	// Default: "localhost:4317" (standard OTLP gRPC port)
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// Insecure controls whether to use insecure (non-TLS) connection
	Insecure bool `mapstructure:"insecure" yaml:"insecure"`

	// SampleRate controls the trace sampling rate (0.0 to 1.0)
	// Default: 1.0 (sample all)
	SampleRate float64 `mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate"`

	// Profiling contains Pyroscope continuous profiling configuration
	Profiling ProfilingConfig `mapstructure:"profiling" yaml:"profiling"`
}

// ProfilingConfig controls Pyroscope continuous profiling.
type ProfilingConfig struct {
	// Enabled controls whether continuous profiling is enabled
	// Default: false (opt-in for profiling)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the Pyroscope server endpoint (URL)
	// Default: "http://localhost:4040"
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// ProfileTypes specifies which profile types to collect
	ProfileTypes []string `mapstructure:"profile_types" yaml:"profile_types"`
}

// PortsConfig holds the listener ports for the player-facing transports.
type PortsConfig struct {
	// BlueBoxHTTP is the port of the HTTP long-poll tunnel.
	// Default: 8080
	BlueBoxHTTP int `mapstructure:"bluebox_http" validate:"omitempty,min=1,max=65535" yaml:"bluebox_http"`

	// SFS2XDirect is the port of the direct TCP endpoint.
	// Default: 9933
	SFS2XDirect int `mapstructure:"sfs2x_direct" validate:"omitempty,min=1,max=65535" yaml:"sfs2x_direct"`
}

// ProtocolConfig contains wire-protocol tunables shared by both transports.
type ProtocolConfig struct {
	// EnableBlueBoxHTTP controls whether the HTTP tunnel is served.
	// Default: true
	EnableBlueBoxHTTP *bool `mapstructure:"enable_bluebox_http" yaml:"enable_bluebox_http"`

	// EnableSFS2XDirect controls whether the direct TCP endpoint is served.
	// Default: true
	EnableSFS2XDirect *bool `mapstructure:"enable_sfs2x_direct" yaml:"enable_sfs2x_direct"`

	// MaxFrameSize caps a single protocol frame.
	// Supports human-readable formats: "16MiB", "1MB"
	// Default: 16MiB
	MaxFrameSize bytesize.ByteSize `mapstructure:"max_frame_size" yaml:"max_frame_size"`

	// MaxConnections caps concurrent TCP connections.
	// Default: 1024
	MaxConnections int `mapstructure:"max_connections" yaml:"max_connections"`

	// ReadTimeout is the per-frame read deadline on the TCP endpoint; it
	// doubles as the connection idle limit.
	// Default: 90s
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout is the per-frame write deadline.
	// Default: 30s
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// BlueBoxEnabled returns whether the HTTP tunnel is served. Defaults to true.
func (c *ProtocolConfig) BlueBoxEnabled() bool {
	if c.EnableBlueBoxHTTP == nil {
		return true
	}
	return *c.EnableBlueBoxHTTP
}

// DirectEnabled returns whether the TCP endpoint is served. Defaults to true.
func (c *ProtocolConfig) DirectEnabled() bool {
	if c.EnableSFS2XDirect == nil {
		return true
	}
	return *c.EnableSFS2XDirect
}

// TimeoutsConfig drives the janitor.
type TimeoutsConfig struct {
	// SessionIdle is how long a session may sit without activity before
	// the janitor disconnects it.
	// Default: 30m
	SessionIdle time.Duration `mapstructure:"session_idle" yaml:"session_idle"`

	// RoomIdle is how long a room may sit without activity before removal.
	// Default: 60m
	RoomIdle time.Duration `mapstructure:"room_idle" yaml:"room_idle"`

	// ReapInterval is the janitor cadence.
	// Default: 60s
	ReapInterval time.Duration `mapstructure:"reap_interval" yaml:"reap_interval"`
}

// LobbyConfig contains room registry behavior.
type LobbyConfig struct {
	// DefaultGroup is the room group used when a create request names none.
	// Default: "lobbies"
	DefaultGroup string `mapstructure:"default_group" yaml:"default_group"`

	// QueueLimit bounds each session's outbound frame queue.
	// Default: 1024
	QueueLimit int `mapstructure:"queue_limit" yaml:"queue_limit"`
}

// MetricsConfig configures the Prometheus metrics HTTP server.
// When Enabled is false, no metrics are collected (zero overhead).
type MetricsConfig struct {
	// Enabled controls whether metrics collection and HTTP server are enabled
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Port is the HTTP port for the metrics endpoint
	// Default: 9090
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (FOXBOX_*)
//  2. Configuration file
//  3. Default values
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	configFileFound, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	// If no config file was found, use defaults
	if !configFileFound {
		cfg := GetDefaultConfig()
		return cfg, nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration with helpful error messages.
// It checks if the config file exists and provides user-friendly
// instructions if not.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf("no configuration file found at default location: %s\n\n"+
				"Please initialize a configuration file first:\n"+
				"  foxbox init\n\n"+
				"Or specify a custom config file:\n"+
				"  foxbox <command> --config /path/to/config.yaml",
				GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s\n\n"+
				"Please create the configuration file:\n"+
				"  foxbox init --config %s",
				configPath, configPath)
		}
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to the specified file path.
// The configuration is saved in YAML format using proper yaml tags.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Use yaml.Marshal directly to respect yaml tags
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Restricted permissions: the file carries the admin password hash
	// and the JWT secret.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setupViper configures viper with environment variables and config file
// settings.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use the FOXBOX_ prefix and underscores
	// Example: FOXBOX_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("FOXBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default location: $XDG_CONFIG_HOME/foxbox/config.yaml
		configDir := getConfigDir()
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists.
// Returns (fileFound, error).
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		// Explicit config file paths surface as os.PathError instead
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}

	return true, nil
}

// configDecodeHooks returns a combined decode hook for all custom types.
// This includes ByteSize and time.Duration parsing.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		byteSizeDecodeHook(),
		durationDecodeHook(),
	)
}

// byteSizeDecodeHook converts strings and integers to bytesize.ByteSize so
// config files can use human-readable sizes like "16MiB" or plain numbers.
func byteSizeDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(bytesize.ByteSize(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return bytesize.ParseByteSize(v)
		case int:
			return bytesize.ByteSize(v), nil
		case int64:
			return bytesize.ByteSize(v), nil
		case uint64:
			return bytesize.ByteSize(v), nil
		case float64:
			// YAML often deserializes numbers as float64
			return bytesize.ByteSize(v), nil
		default:
			return data, nil
		}
	}
}

// durationDecodeHook converts strings to time.Duration so config files can
// use human-readable durations like "30s", "5m", "1h".
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			// Assume nanoseconds for raw integers
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to the
// current directory if the home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "foxbox")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "foxbox")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists checks if a config file exists at the default location.
func DefaultConfigExists() bool {
	path := GetDefaultConfigPath()
	_, err := os.Stat(path)
	return err == nil
}

// GetConfigDir returns the configuration directory path (exposed for the
// init command).
func GetConfigDir() string {
	return getConfigDir()
}
