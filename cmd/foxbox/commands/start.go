package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/martengale/foxbox/internal/janitor"
	"github.com/martengale/foxbox/internal/lobby"
	"github.com/martengale/foxbox/internal/logger"
	"github.com/martengale/foxbox/internal/processor"
	"github.com/martengale/foxbox/internal/session"
	"github.com/martengale/foxbox/internal/telemetry"
	"github.com/martengale/foxbox/pkg/api"
	"github.com/martengale/foxbox/pkg/config"
	"github.com/martengale/foxbox/pkg/server"
)

var (
	foreground bool
	pidFile    string
	logFile    string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the foxbox server",
	Long: `Start the foxbox lobby server with the specified configuration.

By default, the server runs in the background (daemon mode). Use --foreground
to run in the foreground for debugging or when managed by a process supervisor.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/foxbox/config.yaml.

Examples:
  # Start in background (default)
  foxbox start

  # Start in foreground
  foxbox start --foreground

  # Start with custom config file
  foxbox start --config /etc/foxbox/config.yaml

  # Start with environment variable overrides
  FOXBOX_LOGGING_LEVEL=DEBUG foxbox start --foreground`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().BoolVarP(&foreground, "foreground", "f", false, "Run in foreground (default: background/daemon mode)")
	startCmd.Flags().StringVar(&pidFile, "pid-file", "", "Path to PID file (default: $XDG_STATE_HOME/foxbox/foxbox.pid)")
	startCmd.Flags().StringVar(&logFile, "log-file", "", "Path to log file for daemon mode (default: $XDG_STATE_HOME/foxbox/foxbox.log)")
}

func runStart(cmd *cobra.Command, args []string) error {
	// Handle daemon mode (background)
	if !foreground {
		return startDaemon()
	}

	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	// Initialize the structured logger
	if err := InitLogger(cfg); err != nil {
		return err
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry (if enabled)
	telemetryCfg := telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "foxbox",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	}
	telemetryShutdown, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	// Initialize Pyroscope profiling (if enabled)
	profilingCfg := telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "foxbox",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	}
	profilingShutdown, err := telemetry.InitProfiling(profilingCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", "error", err)
		}
	}()

	fmt.Println("foxbox - SFS2X-compatible multiplayer lobby server")
	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	} else {
		logger.Info("Telemetry disabled")
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint, "profile_types", cfg.Telemetry.Profiling.ProfileTypes)
	} else {
		logger.Info("Profiling disabled")
	}

	// Initialize metrics (if enabled)
	metricsResult := config.InitializeMetrics(cfg)

	// Core lobby state: sessions, rooms, and the message processor
	sessions := session.NewRegistry(cfg.Lobby.QueueLimit)
	rooms := lobby.NewRegistry()
	proc := processor.New(sessions, rooms, metricsResult.Lobby, cfg.Lobby.DefaultGroup)

	srv := server.New(proc, sessions, rooms, cfg.ShutdownTimeout)

	// Protocol adapters (direct TCP and BlueBox HTTP)
	adapters := config.CreateAdapters(cfg, proc, sessions, metricsResult.Transport)
	if len(adapters) == 0 {
		return fmt.Errorf("no transports enabled: enable protocol.enable_sfs2x_direct or protocol.enable_bluebox_http")
	}
	for _, a := range adapters {
		srv.AddAdapter(a)
	}

	// Idle session and room sweeps
	srv.SetJanitor(janitor.New(sessions, rooms, proc, metricsResult.Lobby, janitor.Config{
		Interval:    cfg.Timeouts.ReapInterval,
		SessionIdle: cfg.Timeouts.SessionIdle,
		RoomIdle:    cfg.Timeouts.RoomIdle,
	}))

	// Set metrics server if enabled
	if metricsResult.Server != nil {
		logger.Info("Metrics enabled", "port", cfg.Metrics.Port)
		srv.SetMetricsServer(metricsResult.Server)
	} else {
		logger.Info("Metrics collection disabled")
	}

	// Create and set admin API server
	if !cfg.API.IsEnabled() {
		logger.Info("Admin API disabled")
	} else if cfg.API.Auth.Secret == "" {
		logger.Warn("Admin API disabled: no auth secret configured",
			"hint", "run 'foxbox init' or set FOXBOX_API_AUTH_SECRET")
	} else {
		apiServer, err := api.NewServer(cfg.API, api.Deps{
			Sessions:  sessions,
			Rooms:     rooms,
			Processor: proc,
			Adapters:  adapters,
			Version:   Version,
		})
		if err != nil {
			return fmt.Errorf("failed to create API server: %w", err)
		}
		srv.SetAPIServer(apiServer)
		logger.Info("API server configured", "port", cfg.API.Port)
	}

	// Write PID file if specified
	if pidFile != "" {
		if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d", os.Getpid())), 0644); err != nil {
			return fmt.Errorf("failed to write PID file: %w", err)
		}
		defer func() { _ = os.Remove(pidFile) }()
	}

	// Start server in background
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Serve(ctx)
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server is running. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("Shutdown signal received, initiating graceful shutdown")
		cancel()

		// Wait for server to shut down gracefully
		if err := <-serverDone; err != nil {
			logger.Error("Server shutdown error", "error", err)
			return err
		}
		logger.Info("Server stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("Server error", "error", err)
			return err
		}
		logger.Info("Server stopped")
	}

	return nil
}

// getConfigSource returns a description of where the config was loaded from.
func getConfigSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}
