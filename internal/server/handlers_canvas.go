package server

import (
	"context"
	"net/http"

	"github.com/matzehuels/assetcanvas/pkg/canvas"
	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/geom"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
	"github.com/matzehuels/assetcanvas/pkg/render/sink"
)

// =============================================================================
// Selection
// =============================================================================

type selectionResponse struct {
	Selected string         `json:"selected"`
	Kind     hierarchy.Kind `json:"kind,omitempty"`
	Node     hierarchy.Node `json:"node,omitempty"`
}

func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	var resp selectionResponse
	if n, ok := s.store.Selected(); ok {
		resp = selectionResponse{Selected: n.NodeID(), Kind: n.Kind(), Node: n}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetSelection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.SetSelectedItem(req.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.handleGetSelection(w, r)
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.store.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Canvas
// =============================================================================

// pointerRequest is one pointer event in screen pixels. Type is down, move,
// up or cancel; Button follows canvas.Button (0 is the primary button).
type pointerRequest struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button int     `json:"button"`
}

type wheelRequest struct {
	DeltaY float64 `json:"deltaY"`
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type openRequest struct {
	ID string `json:"id"`
}

type inputResponse struct {
	Handled bool          `json:"handled"`
	Status  canvas.Status `json:"status"`
}

// pointer feeds p to the canvas and reports whether it was handled.
func (s *Server) pointer(p pointerRequest) (bool, error) {
	pt := geom.Point{X: p.X, Y: p.Y}
	switch p.Type {
	case "down":
		return s.canvas.PointerDown(pt, canvas.Button(p.Button)), nil
	case "move":
		return s.canvas.PointerMove(pt), nil
	case "up":
		return s.canvas.PointerUp(pt), nil
	case "cancel":
		s.canvas.PointerCancel()
		return true, nil
	}
	return false, errors.New(errors.ErrCodeInvalidInput, "unknown pointer event %q", p.Type)
}

func (s *Server) resize(ctx context.Context, req resizeRequest) error {
	size := geom.Size{Width: req.Width, Height: req.Height}
	if size.Empty() {
		return errors.New(errors.ErrCodeInvalidInput, "size must be positive, got %vx%v", req.Width, req.Height)
	}
	return s.canvas.Resize(ctx, size)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.canvas.Status())
}

func (s *Server) handleFrameSVG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(sink.RenderSVG(s.canvas.Frame(), sink.WithIDs()))
}

func (s *Server) handleFrameJSON(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sink.Flatten(s.canvas.Frame()))
}

func (s *Server) handleFrameMsgpack(w http.ResponseWriter, r *http.Request) {
	data, err := sink.RenderMsgpack(s.canvas.Frame())
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode frame"))
		return
	}
	w.Header().Set("Content-Type", "application/msgpack")
	w.Write(data)
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	handled, err := s.pointer(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inputResponse{Handled: handled, Status: s.canvas.Status()})
}

func (s *Server) handleWheel(w http.ResponseWriter, r *http.Request) {
	var req wheelRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.canvas.Wheel(req.DeltaY)
	writeJSON(w, http.StatusOK, inputResponse{Handled: req.DeltaY != 0, Status: s.canvas.Status()})
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	handled := s.canvas.Back()
	writeJSON(w, http.StatusOK, inputResponse{Handled: handled, Status: s.canvas.Status()})
}

// handleOpen drills into a node on the stage as a double click would.
func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !s.canvas.Open(req.ID) {
		s.writeError(w, r, errors.New(errors.ErrCodeNodeNotFound, "%q is not on the stage", req.ID))
		return
	}
	writeJSON(w, http.StatusOK, inputResponse{Handled: true, Status: s.canvas.Status()})
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.resize(r.Context(), req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inputResponse{Handled: true, Status: s.canvas.Status()})
}
