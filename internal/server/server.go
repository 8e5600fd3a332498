// Package server exposes the composition pipeline over HTTP: raw tool
// scripts, generated installers, and catalog listings, all as plain text a
// shell one-liner can pipe straight into sh.
//
// The catalog and fragment store are read-only after startup and rendering
// is a pure function of its inputs, so concurrent requests share nothing
// mutable and need no synchronization.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/poortools/poor/internal/catalog"
	"github.com/poortools/poor/internal/installer"
	"github.com/poortools/poor/internal/template"
)

const (
	// shutdownTimeout bounds graceful shutdown.
	shutdownTimeout = 10 * time.Second

	// readHeaderTimeout guards against slow-header clients.
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 120 * time.Second
)

// Server serves the poor-tools catalog.
type Server struct {
	mux *http.ServeMux
	cfg Config
	log *log.Logger

	catalog   *catalog.Catalog
	resolver  *template.Resolver
	generator *installer.Generator
	version   string
}

// New creates a Server with all routes registered.
func New(cfg Config, cat *catalog.Catalog, resolver *template.Resolver, gen *installer.Generator, version string, logger *log.Logger) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		cfg:       cfg,
		log:       logger,
		catalog:   cat,
		resolver:  resolver,
		generator: gen,
		version:   version,
	}
	s.registerRoutes()
	return s
}

// Handler returns the HTTP handler with middleware applied.
// Order: recovery -> logging -> routes.
func (s *Server) Handler() http.Handler {
	return s.recoveryMiddleware(s.loggingMiddleware(s.mux))
}

// Run starts the server and blocks until the context is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("serving poor-tools", "addr", srv.Addr, "tools", len(s.catalog.Names()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
