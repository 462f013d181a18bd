package bluebox

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/martengale/foxbox/internal/logger"
)

type contextKey string

// clientIPKey carries the resolved client IP through the request context.
const clientIPKey contextKey = "bluebox_client_ip"

// NewRouter builds the chi router for the BlueBox endpoint. One protocol
// route plus a health probe; the middleware stack mirrors the admin API's
// except that every response is forced to text/plain, which is what the
// client's tunnel expects regardless of negotiation.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(clientIPMiddleware)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/BlueBox", func(r chi.Router) {
		r.Use(textPlainMiddleware)
		r.Post("/BlueBox.do", h.ServeCommand)
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("ok"))
		})
	})

	return r
}

// clientIPMiddleware resolves the client address: first X-Forwarded-For
// entry, then X-Real-IP, then the transport peer. The priority order is
// part of the protocol contract, so chi's RealIP (different order) is not
// used here.
func clientIPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := peerIP(r.RemoteAddr)
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if first, _, found := strings.Cut(xff, ","); found || first != "" {
				ip = strings.TrimSpace(first)
			}
		} else if real := r.Header.Get("X-Real-IP"); real != "" {
			ip = strings.TrimSpace(real)
		}
		ctx := context.WithValue(r.Context(), clientIPKey, ip)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIP returns the resolved client address from the request context,
// falling back to the peer address.
func ClientIP(r *http.Request) string {
	if ip, ok := r.Context().Value(clientIPKey).(string); ok {
		return ip
	}
	return peerIP(r.RemoteAddr)
}

func peerIP(remoteAddr string) string {
	if i := strings.LastIndex(remoteAddr, ":"); i > 0 {
		return strings.Trim(remoteAddr[:i], "[]")
	}
	return remoteAddr
}

// textPlainMiddleware pins the response content type. No negotiation: the
// tunnel payloads are plain text whatever the Accept header says.
func textPlainMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs each exchange with the internal logger; chi's own
// logger writes to stdout in a different format.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.Debug("BlueBox request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		)
	})
}
