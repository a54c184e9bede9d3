// Package api serves the dashboard: the venue dataset, catchment shapes,
// per-user wishlists, and session auth, plus the operational endpoints.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Jeepster74/MPone/internal/observability"
	"github.com/Jeepster74/MPone/internal/store"
)

// Server exposes the dashboard API over HTTP.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	metrics    *observability.Metrics

	storePath string
	shapes    *store.ShapeCache
	wishlist  *store.Wishlist
	sessions  *SessionManager
}

// NewServer wires the router. CORS applies to the whole API surface;
// authentication guards everything under /api except login.
func NewServer(addr, storePath string, shapes *store.ShapeCache, wishlist *store.Wishlist, sessions *SessionManager, corsOrigins []string, logger *slog.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		logger:    logger,
		metrics:   metrics,
		storePath: storePath,
		shapes:    shapes,
		wishlist:  wishlist,
		sessions:  sessions,
	}

	r := chi.NewRouter()
	r.Use(CORS(corsOrigins))
	r.Use(s.countRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(RequireSession(s.sessions))
			r.Get("/tracks", s.handleTracks)
			r.Get("/tracks/shapes", s.handleShapes)
			r.Get("/wishlist", s.handleWishlistGet)
			r.Post("/wishlist", s.handleWishlistUpdate)
		})
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady reports readiness. The server is ready when the store file
// is readable; an empty or absent store still serves (as empty data), so
// only a malformed store blocks readiness.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if _, err := store.ReadRecords(s.storePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// countRequests labels request counts by chi route pattern and status.
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
