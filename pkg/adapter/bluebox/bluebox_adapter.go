// Package bluebox is the HTTP long-poll fallback endpoint. Clients that
// cannot open a direct TCP connection tunnel the same binary protocol
// through POST /BlueBox/BlueBox.do: pipe-separated commands with base64
// frame payloads, drained by client-driven polls.
package bluebox

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/martengale/foxbox/internal/logger"
	"github.com/martengale/foxbox/internal/processor"
	"github.com/martengale/foxbox/internal/session"
	"github.com/martengale/foxbox/pkg/metrics"
)

// Config holds the BlueBox endpoint settings.
type Config struct {
	// Port is the listen port. Defaults to 8080.
	Port int `mapstructure:"port" validate:"min=0,max=65535"`

	// ReadTimeout and WriteTimeout bound one HTTP exchange.
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"min=0"`
}

func (c *Config) applyDefaults() {
	if c.Port <= 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30 * time.Second
	}
}

func (c *Config) validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be 0-65535", c.Port)
	}
	return nil
}

// Adapter is the BlueBox HTTP endpoint.
type Adapter struct {
	config   Config
	server   *http.Server
	handler  *Handler
	shutdown sync.Once
}

// New creates the BlueBox adapter. Zero config values get defaults; an
// invalid config panics.
func New(cfg Config, proc *processor.Processor, sessions *session.Registry, m metrics.TransportMetrics) *Adapter {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		panic(fmt.Sprintf("invalid bluebox config: %v", err))
	}

	handler := NewHandler(proc, sessions, m)
	return &Adapter{
		config:  cfg,
		handler: handler,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      NewRouter(handler),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

func (a *Adapter) Protocol() string { return "bluebox-http" }
func (a *Adapter) Port() int        { return a.config.Port }

// Serve runs the HTTP server until the context is cancelled.
func (a *Adapter) Serve(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("BlueBox server listening", "port", a.config.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
			}
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("bluebox server failed: %w", err)
	}
}

// Stop shuts the HTTP server down gracefully. Safe to call more than once.
func (a *Adapter) Stop(ctx context.Context) error {
	var shutdownErr error
	a.shutdown.Do(func() {
		if err := a.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("bluebox shutdown: %w", err)
		} else {
			logger.Info("BlueBox server stopped")
		}
	})
	return shutdownErr
}
