// Package server exposes the enterprise store and the mounted canvas over
// HTTP and WebSocket.
//
// One server owns one canvas. Every HTTP request and WebSocket session
// drives the same view, so pointer input from any client moves the shared
// drill state and selection. Clients draw either the server-rendered SVG
// frame or the flattened shape list.
//
// Routes live under /api; see routes.go for the full table.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/assetcanvas/pkg/buildinfo"
	"github.com/matzehuels/assetcanvas/pkg/cache"
	"github.com/matzehuels/assetcanvas/pkg/canvas"
	"github.com/matzehuels/assetcanvas/pkg/config"
	"github.com/matzehuels/assetcanvas/pkg/render/sink"
	"github.com/matzehuels/assetcanvas/pkg/store"
)

const shutdownTimeout = 5 * time.Second

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger shared by the server and its canvas.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithIDGenerator replaces uuid.NewString for ids the server assigns.
func WithIDGenerator(fn func() string) Option { return func(s *Server) { s.newID = fn } }

// WithDiagramCache caches Graphviz SVG renders. The default stores nothing.
func WithDiagramCache(c cache.Cache) Option { return func(s *Server) { s.diagrams = c } }

// WithCanvasOptions passes extra options to the canvas.
func WithCanvasOptions(opts ...canvas.Option) Option {
	return func(s *Server) { s.canvasOpts = append(s.canvasOpts, opts...) }
}

// Server serves the API.
type Server struct {
	cfg        config.Config
	store      *store.Store
	canvas     *canvas.Canvas
	box        *sink.Container
	logger     *log.Logger
	newID      func() string
	diagrams   cache.Cache
	canvasOpts []canvas.Option
	upgrader   websocket.Upgrader
	router     chi.Router
}

// New builds a server over st and mounts its canvas.
func New(ctx context.Context, cfg config.Config, st *store.Store, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		store:    st,
		box:      sink.NewContainer(cfg.Canvas.Size()),
		logger:   log.Default(),
		newID:    uuid.NewString,
		diagrams: cache.NewNullCache(),
	}
	for _, opt := range opts {
		opt(s)
	}

	copts := append([]canvas.Option{
		canvas.WithLogger(s.logger),
		canvas.WithGestureConfig(cfg.Canvas.Gesture()),
		canvas.WithSize(cfg.Canvas.Size()),
	}, s.canvasOpts...)
	s.canvas = canvas.New(st, copts...)
	if err := s.canvas.Mount(ctx, s.box); err != nil {
		return nil, err
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4 * 1024,
		WriteBufferSize: 64 * 1024,
		CheckOrigin:     func(r *http.Request) bool { return s.originAllowed(r.Header.Get("Origin")) },
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Canvas returns the mounted canvas.
func (s *Server) Canvas() *canvas.Canvas { return s.canvas }

// Close unmounts the canvas.
func (s *Server) Close() { s.canvas.Unmount() }

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr, "version", buildinfo.Version)
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
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
