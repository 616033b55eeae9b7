// Package server exposes the ordering pipeline over HTTP.
//
// # Routes
//
//	GET  /healthz       liveness and build version
//	POST /v1/order      order a graph document, optionally rendering it
//	POST /v1/crossings  count the crossings of a document's layering
//
// Request bodies are JSON and limited to Options.MaxBodyBytes. Every
// response carries an X-Request-ID header; a client-supplied ID is echoed
// back. Errors are returned as
//
//	{"error": {"code": "INVALID_GRAPH", "message": "..."}, "request_id": "..."}
//
// with the HTTP status derived from the error code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/rankorder/pkg/config"
	"github.com/matzehuels/rankorder/pkg/pipeline"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	// Runner executes orderings. Required.
	Runner *pipeline.Runner
	// Logger receives access and lifecycle logs. Nil discards them.
	Logger *log.Logger
	// Defaults are the ordering options requests start from.
	Defaults pipeline.Options
	// MaxBodyBytes limits request bodies. Zero means config.DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// RequestTimeout bounds each request. Zero means config.DefaultRequestTimeout.
	RequestTimeout time.Duration
}

// Server is the HTTP API. It is safe for concurrent use.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults pipeline.Options
	maxBody  int64
	timeout  time.Duration
}

// New creates a Server from opts.
func New(opts Options) *Server {
	s := &Server{
		runner:   opts.Runner,
		logger:   opts.Logger,
		defaults: opts.Defaults,
		maxBody:  opts.MaxBodyBytes,
		timeout:  opts.RequestTimeout,
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.maxBody <= 0 {
		s.maxBody = config.DefaultMaxBodyBytes
	}
	if s.timeout <= 0 {
		s.timeout = config.DefaultRequestTimeout
	}
	return s
}

// Handler returns the router with all middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/order", s.handleOrder)
		r.Post("/crossings", s.handleCrossings)
	})
	r.NotFound(s.handleNotFound)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
