package server

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/assetcanvas/pkg/observability"
)

// routes builds the router.
//
//	GET    /api/health
//	GET    /api/enterprise              current enterprise
//	PUT    /api/enterprise              replace from an export document
//	DELETE /api/enterprise              clear storage and start empty
//	GET    /api/enterprise/export       download as enterprise_data_<date>.json
//	GET    /api/enterprise/dot          Graphviz tree (?format=svg, ?depth=, ?detailed=)
//	POST   /api/enterprise/sample       load the sample enterprise
//	POST   /api/enterprise/save         save to the storage backend
//	POST   /api/enterprise/load         reload from the storage backend
//	POST   /api/regions                 add a region
//	GET    /api/nodes/{id}              node with its ancestor path
//	PATCH  /api/nodes/{id}              rename
//	DELETE /api/nodes/{id}              remove with subtree
//	POST   /api/nodes/{id}/children     add a child of the next level down
//	PATCH  /api/nodes/{id}/geometry     merge a geometry patch
//	GET    /api/selection
//	PUT    /api/selection
//	DELETE /api/selection
//	GET    /api/canvas                  canvas status
//	GET    /api/canvas/frame.svg
//	GET    /api/canvas/frame.json
//	GET    /api/canvas/frame.msgpack
//	POST   /api/canvas/pointer
//	POST   /api/canvas/wheel
//	POST   /api/canvas/back
//	POST   /api/canvas/resize
//	POST   /api/canvas/open             drill into a node by id
//	GET    /api/canvas/ws               WebSocket session
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(s.corsOptions()))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/enterprise", func(r chi.Router) {
			r.Get("/", s.handleGetEnterprise)
			r.Put("/", s.handlePutEnterprise)
			r.Delete("/", s.handleClearEnterprise)
			r.Get("/export", s.handleExport)
			r.Get("/dot", s.handleDOT)
			r.Post("/sample", s.handleSample)
			r.Post("/save", s.handleSave)
			r.Post("/load", s.handleLoad)
		})

		r.Post("/regions", s.handleAddRegion)
		r.Route("/nodes/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetNode)
			r.Patch("/", s.handleRename)
			r.Delete("/", s.handleRemove)
			r.Post("/children", s.handleAddChild)
			r.Patch("/geometry", s.handleGeometry)
		})

		r.Route("/selection", func(r chi.Router) {
			r.Get("/", s.handleGetSelection)
			r.Put("/", s.handleSetSelection)
			r.Delete("/", s.handleClearSelection)
		})

		r.Route("/canvas", func(r chi.Router) {
			r.Get("/", s.handleStatus)
			r.Get("/frame.svg", s.handleFrameSVG)
			r.Get("/frame.json", s.handleFrameJSON)
			r.Get("/frame.msgpack", s.handleFrameMsgpack)
			r.Post("/pointer", s.handlePointer)
			r.Post("/wheel", s.handleWheel)
			r.Post("/back", s.handleBack)
			r.Post("/resize", s.handleResize)
			r.Post("/open", s.handleOpen)
			r.Get("/ws", s.handleWebSocket)
		})
	})
	return r
}

// observe reports every request to the HTTP hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		elapsed := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, path, status, elapsed)
		s.logger.Debug("request", "method", r.Method, "path", path, "status", status,
			"elapsed", elapsed.Round(time.Microsecond), "id", middleware.GetReqID(r.Context()))
	})
}

// corsOptions allows browser clients from server.allow_origins.
func (s *Server) corsOptions() cors.Options {
	return cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return s.originAllowed(origin)
		},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}
}

// originAllowed is the WebSocket upgrader's origin check, matching the
// CORS policy. Requests without an Origin header are same-origin or
// non-browser and always allowed.
func (s *Server) originAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	allowed := s.cfg.Server.AllowOrigins
	if slices.Contains(allowed, "*") {
		return true
	}
	return slices.ContainsFunc(allowed, func(a string) bool {
		return strings.EqualFold(strings.TrimSuffix(a, "/"), origin)
	})
}
