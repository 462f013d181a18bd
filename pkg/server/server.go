// Package server is the process aggregate: it owns the protocol adapters,
// the auxiliary HTTP servers, and the janitor, and runs them under one
// lifecycle with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/martengale/foxbox/internal/janitor"
	"github.com/martengale/foxbox/internal/lobby"
	"github.com/martengale/foxbox/internal/logger"
	"github.com/martengale/foxbox/internal/processor"
	"github.com/martengale/foxbox/internal/session"
	"github.com/martengale/foxbox/pkg/adapter"
)

// ErrNoAdapters is returned by Serve when no transport was added.
var ErrNoAdapters = errors.New("no adapters configured")

// AuxiliaryServer is an HTTP sidecar (metrics, admin API) with its own
// lifecycle.
type AuxiliaryServer interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Port() int
}

// Server runs the lobby: transports, sidecars, and the janitor.
//
// Build it with New, register components with the Set/Add methods, then
// call Serve. Registration after Serve panics.
type Server struct {
	proc            *processor.Processor
	sessions        *session.Registry
	rooms           *lobby.Registry
	shutdownTimeout time.Duration

	adapters      []adapter.Adapter
	metricsServer AuxiliaryServer
	apiServer     AuxiliaryServer
	janitor       *janitor.Janitor

	serveOnce sync.Once
	served    bool
}

// New creates a server aggregate. A non-positive shutdownTimeout falls
// back to 5s.
func New(proc *processor.Processor, sessions *session.Registry, rooms *lobby.Registry, shutdownTimeout time.Duration) *Server {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 5 * time.Second
	}
	return &Server{
		proc:            proc,
		sessions:        sessions,
		rooms:           rooms,
		shutdownTimeout: shutdownTimeout,
	}
}

// AddAdapter registers a protocol adapter.
func (s *Server) AddAdapter(a adapter.Adapter) {
	s.mustNotBeServing("adapter")
	s.adapters = append(s.adapters, a)
	logger.Info("Adapter registered", "protocol", a.Protocol(), "port", a.Port())
}

// SetMetricsServer registers the Prometheus metrics server. May be nil.
func (s *Server) SetMetricsServer(srv AuxiliaryServer) {
	s.mustNotBeServing("metrics server")
	s.metricsServer = srv
	if srv != nil {
		logger.Info("Metrics server registered", "port", srv.Port())
	}
}

// SetAPIServer registers the admin API server. May be nil.
func (s *Server) SetAPIServer(srv AuxiliaryServer) {
	s.mustNotBeServing("API server")
	s.apiServer = srv
	if srv != nil {
		logger.Info("API server registered", "port", srv.Port())
	}
}

// SetJanitor registers the idle reaper. May be nil.
func (s *Server) SetJanitor(j *janitor.Janitor) {
	s.mustNotBeServing("janitor")
	s.janitor = j
}

func (s *Server) mustNotBeServing(what string) {
	if s.served {
		panic(fmt.Sprintf("cannot set %s after Serve() has been called", what))
	}
}

// Serve starts every registered component and blocks until the context is
// cancelled or a component fails. Either way all components are stopped
// before it returns; context cancellation is a clean shutdown (nil error).
//
// A second call returns nil without doing anything.
func (s *Server) Serve(ctx context.Context) error {
	var err error
	s.serveOnce.Do(func() {
		s.served = true
		err = s.serve(ctx)
	})
	return err
}

func (s *Server) serve(ctx context.Context) error {
	if len(s.adapters) == 0 {
		return ErrNoAdapters
	}

	logger.Info("Starting lobby server",
		"adapters", len(s.adapters),
		"sessions", s.sessions.Count(),
		"shutdown_timeout", s.shutdownTimeout.String(),
	)

	if s.janitor != nil {
		if err := s.janitor.Start(); err != nil {
			return fmt.Errorf("failed to start janitor: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, a := range s.adapters {
		g.Go(func() error {
			if err := a.Serve(gctx); err != nil {
				return fmt.Errorf("%s adapter: %w", a.Protocol(), err)
			}
			return nil
		})
	}
	if s.metricsServer != nil {
		g.Go(func() error { return s.metricsServer.Start(gctx) })
	}
	if s.apiServer != nil {
		g.Go(func() error { return s.apiServer.Start(gctx) })
	}

	// A component failure cancels gctx, which drains the others; on plain
	// ctx cancellation every component returns nil.
	err := g.Wait()

	s.shutdown()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server stopped with error", "error", err)
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// shutdown stops every component that is still running. Component Stop
// methods are idempotent, so stopping an already-drained component is
// harmless.
func (s *Server) shutdown() {
	if s.janitor != nil {
		logger.Debug("Stopping janitor")
		s.janitor.Stop()
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	for _, a := range s.adapters {
		if err := a.Stop(stopCtx); err != nil {
			logger.Warn("Adapter shutdown error", "protocol", a.Protocol(), "error", err)
		}
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Stop(stopCtx); err != nil {
			logger.Warn("Metrics server shutdown error", "error", err)
		}
	}
	if s.apiServer != nil {
		if err := s.apiServer.Stop(stopCtx); err != nil {
			logger.Warn("API server shutdown error", "error", err)
		}
	}
}
