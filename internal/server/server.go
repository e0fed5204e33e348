// Package server implements the glyphgraph HTTP API.
//
// # Endpoints
//
//	POST /v1/extract?cell_size=N    multipart field "image" or a raw image body
//	POST /v1/extract/grid           serialized grid JSON body
//	GET  /v1/graphs                 recent results, newest first (?limit=N)
//	GET  /v1/graphs/{id}            one stored result with its graph
//	GET  /v1/graphs/{id}/overlay.png
//	GET  /v1/graphs/{id}/graph.dot  (?pinned=true fixes nodes at glyph centers)
//	GET  /healthz
//
// cell_size=0 asks for an estimated cell size; omitting it uses the default.
// Extraction results are stored under a fresh UUID and returned with status
// 201. Errors are JSON objects {"code", "message"} with the status derived
// from the error code.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/glyphgraph/pkg/cache"
	"github.com/matzehuels/glyphgraph/pkg/observability"
	"github.com/matzehuels/glyphgraph/pkg/pipeline"
	"github.com/matzehuels/glyphgraph/pkg/store"
)

// KeyPrefix scopes API cache entries away from CLI entries sharing a backend.
const KeyPrefix = "api:"

// DefaultMaxUploadBytes caps request bodies when Options.MaxUploadBytes is zero.
const DefaultMaxUploadBytes = 32 << 20

const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	Cache          cache.Cache // Nil disables caching
	Store          store.Store // Nil uses an in-memory store
	Logger         *log.Logger
	MaxUploadBytes int64
	Workers        int     // Goroutines for connectivity resolution
	LabelSize      float64 // Overlay label size in points

	// Stats is served at /v1/stats. The caller registers it as hooks; nil
	// serves empty counters.
	Stats *observability.Counters
}

// Server serves the extraction API.
type Server struct {
	runner    *pipeline.Runner
	store     store.Store
	logger    *log.Logger
	maxUpload int64
	workers   int
	labelSize float64
	stats     *observability.Counters
	router    chi.Router
}

// New builds a server and its routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Store == nil {
		opts.Store = store.NewMemory()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.Stats == nil {
		opts.Stats = observability.NewCounters()
	}

	s := &Server{
		runner:    pipeline.NewRunner(opts.Cache, cache.NewScopedKeyer(cache.NewDefaultKeyer(), KeyPrefix), opts.Logger),
		store:     opts.Store,
		logger:    opts.Logger,
		maxUpload: opts.MaxUploadBytes,
		workers:   opts.Workers,
		labelSize: opts.LabelSize,
		stats:     opts.Stats,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/extract", s.handleExtractImage)
		r.Post("/extract/grid", s.handleExtractGrid)
		r.Get("/graphs", s.handleListGraphs)
		r.Get("/graphs/{id}", s.handleGetGraph)
		r.Get("/graphs/{id}/overlay.png", s.handleGetOverlay)
		r.Get("/graphs/{id}/graph.dot", s.handleGetDOT)
		r.Get("/stats", s.handleStats)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases the runner cache and the store.
func (s *Server) Close() error {
	cerr := s.runner.Close()
	if err := s.store.Close(); err != nil {
		return err
	}
	return cerr
}
