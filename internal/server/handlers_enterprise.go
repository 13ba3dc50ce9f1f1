package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/assetcanvas/pkg/buildinfo"
	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
	aio "github.com/matzehuels/assetcanvas/pkg/io"
	"github.com/matzehuels/assetcanvas/pkg/render/dot"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"build":   buildinfo.Get(),
		"storage": s.store.Backend().Name(),
		"ready":   s.canvas.Ready(),
	})
}

func (s *Server) handleGetEnterprise(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Enterprise())
}

// handlePutEnterprise replaces the enterprise with an uploaded export.
func (s *Server) handlePutEnterprise(w http.ResponseWriter, r *http.Request) {
	e, err := aio.ReadJSON(http.MaxBytesReader(w, r.Body, s.maxBody()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.SetEnterprise(e); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("enterprise imported", "id", e.ID, "regions", len(e.Regions))
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleClearEnterprise(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", aio.ExportFilename(time.Now())))
	if err := aio.WriteJSON(s.store.Enterprise(), w); err != nil {
		s.logger.Error("export failed", "err", err)
	}
}

// handleDOT renders the hierarchy as a Graphviz tree. Query parameters:
// depth (region|plant|area|location|equipment), detailed (bool) and
// format (dot|svg).
func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var opts dot.Options
	if v := q.Get("depth"); v != "" {
		k, ok := hierarchy.ParseKind(v)
		if !ok {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "unknown depth %q", v))
			return
		}
		opts.Depth = k
	}
	if v := q.Get("detailed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "detailed must be a boolean"))
			return
		}
		opts.Detailed = b
	}

	src := dot.ToDOT(s.store.Enterprise(), opts)
	switch q.Get("format") {
	case "", "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		w.Write([]byte(src))
	case "svg":
		svg, hit, err := dot.RenderSVGCached(r.Context(), s.diagrams, src)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.logger.Debug("rendered diagram", "cached", hit, "bytes", len(svg))
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(svg)
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", q.Get("format")))
	}
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	if err := s.store.SetEnterprise(hierarchy.Sample()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Enterprise())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Save(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"saved": true, "backend": s.store.Backend().Name()})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	found, err := s.store.Load(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !found {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no saved enterprise in %s storage", s.store.Backend().Name()))
		return
	}
	writeJSON(w, http.StatusOK, s.store.Enterprise())
}
