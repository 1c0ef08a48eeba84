// Package server exposes the layout and render pipeline over HTTP.
//
// # Routes
//
//	GET  /healthz     liveness and build version
//	POST /v1/layout   CSV body, JSON layout response
//	POST /v1/render   CSV body, chart response in ?format=svg|png|pdf|json
//
// Chart geometry is read from query parameters (lanes, lane_width, height,
// axis_offset, ticks, overflow, select); unset parameters keep the server's
// configured chart. Every response carries an X-Render-ID header. Errors are
// JSON objects with a code and a message.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/DavidBetteridge/TaskVisualiser/pkg/cache"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/config"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/observability"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/pipeline"
	"github.com/DavidBetteridge/TaskVisualiser/pkg/timeline"
)

// HeaderRenderID identifies a request in responses and logs.
const HeaderRenderID = "X-Render-ID"

// KeyPrefix scopes the server's cache entries away from the CLI's.
const KeyPrefix = "api:"

const shutdownTimeout = 10 * time.Second

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	cfg    config.ServerConfig
	chart  timeline.Config
	logger *log.Logger
	router chi.Router
}

// New returns a server that runs requests through runner. chart is the
// default geometry for requests that do not override it.
func New(runner *pipeline.Runner, cfg config.ServerConfig, chart timeline.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = config.DefaultMaxBody
	}

	scoped := *runner
	scoped.Keyer = cache.NewScopedKeyer(runner.Keyer, KeyPrefix)

	s := &Server{
		runner: &scoped,
		cfg:    cfg,
		chart:  chart.WithDefaults(),
		logger: logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.track)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// track stamps the render ID, logs each request and reports it to the HTTP
// hooks.
func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.New().String()
		w.Header().Set(HeaderRenderID, id)

		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		hooks.OnResponse(r.Context(), r.Method, route, ww.Status(), time.Since(start))

		s.logger.Info("request",
			"id", ww.Header().Get(HeaderRenderID),
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
		next.ServeHTTP(w, r)
	})
}
