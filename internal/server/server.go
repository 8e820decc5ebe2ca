// Package server assembles the HTTP API: routing, middleware, and
// lifecycle for the control-plane service.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/odcplane/odcplane/internal/errors"
	"github.com/odcplane/odcplane/internal/observability"
	"github.com/odcplane/odcplane/internal/server/handlers"
	"github.com/odcplane/odcplane/internal/server/middleware"
)

// Timeouts configures the HTTP server timeouts. Zero values fall back
// to the defaults below.
type Timeouts struct {
	Read     time.Duration
	Write    time.Duration
	Idle     time.Duration
	Shutdown time.Duration
}

const (
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Deps are the handler dependencies for route registration. Nil
// handlers leave their routes unregistered, which keeps the server
// constructible in tests that only exercise the ambient routes.
type Deps struct {
	Jobs        *handlers.JobsHandler
	Collections *handlers.CollectionsHandler
	Results     *handlers.ResultsHandler
	Version     handlers.VersionInfo
	Timeouts    Timeouts
}

// Server is the control-plane HTTP server.
type Server struct {
	host     string
	port     int
	router   chi.Router
	timeouts Timeouts
}

// New creates a server listening on host:port with routes for the
// given dependencies.
func New(host string, port int, deps Deps) *Server {
	s := &Server{
		host:     host,
		port:     port,
		timeouts: deps.Timeouts,
	}
	s.router = buildRouter(deps)
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Port returns the configured port.
func (s *Server) Port() int {
	return s.port
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.host, s.port)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	t := s.timeouts
	if t.Read <= 0 {
		t.Read = defaultReadTimeout
	}
	if t.Write <= 0 {
		t.Write = defaultWriteTimeout
	}
	if t.Idle <= 0 {
		t.Idle = defaultIdleTimeout
	}
	if t.Shutdown <= 0 {
		t.Shutdown = defaultShutdownTimeout
	}

	httpServer := &http.Server{
		Handler:      s.router,
		ReadTimeout:  t.Read,
		WriteTimeout: t.Write,
		IdleTimeout:  t.Idle,
	}

	listener, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.Addr(), err)
	}

	observability.ServerLogger.Info("server listening",
		zap.String("addr", listener.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), t.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

func buildRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Recovery)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		apperrors.Respond(w, http.StatusNotFound, "NOT_FOUND",
			"route not found", middleware.GetRequestID(req.Context()))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		apperrors.Respond(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			"method not allowed", middleware.GetRequestID(req.Context()))
	})

	r.Get("/health", handlers.HealthHandler)
	r.Get("/health/live", handlers.LivenessHandler)
	r.Get("/health/ready", handlers.ReadinessHandler)
	r.Get("/health/startup", handlers.StartupHandler)

	version := handlers.NewVersionHandler(deps.Version)
	r.Get("/version", version.Get)

	if deps.Jobs != nil {
		r.Post("/graph", deps.Jobs.Submit)
		r.Get("/jobs", deps.Jobs.List)
		r.Delete("/jobs/{id}", deps.Jobs.Cancel)
		// Older clients pass the id as a query parameter.
		r.Delete("/stop_job", deps.Jobs.CancelLegacy)
	}

	if deps.Collections != nil {
		r.Get("/collections", deps.Collections.List)
		r.Get("/collections/{name}", deps.Collections.Describe)
		r.Post("/collections/{name}/refresh", deps.Collections.Refresh)
	}

	if deps.Results != nil {
		r.Get("/results/{run_id}/{file}", deps.Results.Get)
	}

	return r
}
