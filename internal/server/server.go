// Package server exposes editing sessions over HTTP.
//
// Every session owns a workflow document and a layout engine. Clients post
// a workflow, change the selection, apply layout operations and walk the
// undo history, reading back the updated workflow after each call:
//
//	POST   /sessions                   create from a workflow body
//	GET    /sessions/{id}              current workflow and history state
//	POST   /sessions/{id}/select       {"ids": [...]} or {"all": true}
//	POST   /sessions/{id}/ops/{op}     apply a layout operation
//	POST   /sessions/{id}/color        {"field": "bgcolor", "color": "#353"}
//	POST   /sessions/{id}/undo
//	POST   /sessions/{id}/redo
//	GET    /sessions/{id}/preview      SVG or DOT preview of the workflow
//	DELETE /sessions/{id}
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/nodedesign/pkg/cache"
	"github.com/matzehuels/nodedesign/pkg/render/nodelink"
	"github.com/matzehuels/nodedesign/pkg/session"
)

// RenderFunc turns DOT into an image.
type RenderFunc func(ctx context.Context, dot string, placement nodelink.Placement) ([]byte, error)

// Options configures a Server. Zero values select defaults.
type Options struct {
	Cache    cache.Cache   // preview cache, defaults to a null cache
	CacheTTL time.Duration // preview lifetime, defaults to cache.DefaultTTL
	Render   RenderFunc    // defaults to nodelink.RenderSVG
	Metrics  http.Handler  // mounted at /metrics when set
	Logger   *log.Logger
}

// Server serves the session API.
type Server struct {
	sessions *session.Registry
	cache    cache.Cache
	cacheTTL time.Duration
	keyer    cache.Keyer
	render   RenderFunc
	metrics  http.Handler
	logger   *log.Logger
}

// New creates a server over the given registry.
func New(sessions *session.Registry, opts Options) *Server {
	s := &Server{
		sessions: sessions,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		keyer:    cache.NewDefaultKeyer(),
		render:   opts.Render,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.cacheTTL <= 0 {
		s.cacheTTL = cache.DefaultTTL
	}
	if s.render == nil {
		s.render = nodelink.RenderSVG
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)
	r.Get("/operations", s.operations)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Post("/select", s.selectNodes)
			r.Post("/ops/{op}", s.applyOperation)
			r.Post("/color", s.setColor)
			r.Post("/undo", s.undo)
			r.Post("/redo", s.redo)
			r.Get("/preview", s.preview)
		})
	})
	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
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

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return err
	}
	return nil
}
