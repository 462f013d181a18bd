package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/martengale/foxbox/internal/logger"
	"github.com/martengale/foxbox/internal/lobby"
	"github.com/martengale/foxbox/internal/processor"
	"github.com/martengale/foxbox/internal/session"
	"github.com/martengale/foxbox/pkg/adapter"
	"github.com/martengale/foxbox/pkg/api/auth"
)

// Deps are the server internals the API surfaces. All fields except
// Adapters and Version are required.
type Deps struct {
	Sessions  *session.Registry
	Rooms     *lobby.Registry
	Processor *processor.Processor
	Adapters  []adapter.Adapter
	Version   string
}

// Server provides the admin REST API over HTTP.
//
// The server supports graceful shutdown with configurable timeout.
type Server struct {
	server       *http.Server
	config       APIConfig
	shutdownOnce sync.Once
}

// NewServer creates a new API HTTP server.
//
// The server is created in a stopped state; call Start() to serve.
// Defaults are applied here so the server works when created directly
// (e.g., in tests); this is idempotent with config-load defaults.
//
// Returns an error when the JWT secret is missing or too short.
func NewServer(config APIConfig, deps Deps) (*Server, error) {
	config.applyDefaults()

	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		Secret:               config.Auth.Secret,
		Issuer:               config.Auth.Issuer,
		AccessTokenDuration:  config.Auth.AccessTokenDuration,
		RefreshTokenDuration: config.Auth.RefreshTokenDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("API auth setup: %w", err)
	}

	router := NewRouter(deps, config, jwtService)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		server: server,
		config: config,
	}, nil
}

// Start starts the API HTTP server and blocks until the context is
// cancelled or an error occurs. Cancellation triggers graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("API server listening", "port", s.config.Port)

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
				// Context was cancelled, error is not needed
			}
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("API server shutdown signal received")
		// Fresh context: the cancelled one would abort the drain.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("API server failed: %w", err)
	}
}

// Stop initiates graceful shutdown of the API server.
//
// Safe to call multiple times and concurrently with Start().
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		logger.Debug("API server shutdown initiated")

		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("API server shutdown error: %w", err)
			logger.Error("API server shutdown error", "error", err)
		} else {
			logger.Info("API server stopped gracefully")
		}
	})
	return shutdownErr
}

// Port returns the TCP port the server is listening on.
func (s *Server) Port() int {
	return s.config.Port
}
