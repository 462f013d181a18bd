// Package api implements the admin REST surface: health probes, JWT
// authentication for the configured operator account, and room/session
// management endpoints.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/martengale/foxbox/internal/logger"
	"github.com/martengale/foxbox/pkg/api/auth"
	"github.com/martengale/foxbox/pkg/api/handlers"
	"github.com/martengale/foxbox/pkg/api/middleware"
)

// NewRouter creates and configures the chi router with all middleware and
// routes.
//
// Routes:
//   - GET  /health              - liveness probe (no auth)
//   - GET  /health/ready        - readiness probe (no auth)
//   - POST /api/v1/auth/login   - operator login (no auth)
//   - POST /api/v1/auth/refresh - token refresh (no auth)
//   - GET  /api/v1/status       - server status (Bearer)
//   - GET  /api/v1/rooms        - list rooms (Bearer)
//   - GET  /api/v1/rooms/{id}   - room detail (Bearer)
//   - DELETE /api/v1/rooms/{id} - close a room, kicking members (Bearer)
//   - GET  /api/v1/sessions     - list sessions (Bearer)
//   - DELETE /api/v1/sessions/{id} - kick a session (Bearer)
func NewRouter(deps Deps, config APIConfig, jwtService *auth.JWTService) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	healthHandler := handlers.NewHealthHandler(deps.Sessions, deps.Rooms)
	authHandler := handlers.NewAuthHandler(jwtService, config.Admin.Username, config.Admin.PasswordHash)
	statusHandler := handlers.NewStatusHandler(deps.Sessions, deps.Rooms, deps.Adapters, deps.Version)
	roomHandler := handlers.NewRoomHandler(deps.Rooms, deps.Processor)
	sessionHandler := handlers.NewSessionHandler(deps.Sessions, deps.Processor)

	// Health routes - unauthenticated
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtService))

			r.Get("/status", statusHandler.Status)

			r.Route("/rooms", func(r chi.Router) {
				r.Get("/", roomHandler.List)
				r.Get("/{id}", roomHandler.Get)
				r.Delete("/{id}", roomHandler.Delete)
			})

			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", sessionHandler.List)
				r.Delete("/{id}", sessionHandler.Delete)
			})
		})
	})

	// Root redirect to health for convenience
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	return r
}

// requestLogger logs requests using the internal logger.
//
// It logs:
//   - Request start (DEBUG level): method, path, remote addr
//   - Request completion (INFO level): method, path, status, duration
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := chimiddleware.GetReqID(r.Context())

		logger.Debug("API request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)

		logger.Info("API request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration.String(),
		)
	})
}
