package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/geom"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
)

// nodeRequest creates a node. ID is assigned when omitted.
type nodeRequest struct {
	ID   string               `json:"id"`
	Name string               `json:"name"`
	Code hierarchy.RegionCode `json:"code"`
	Type string               `json:"type"`
}

// nodeResponse describes one node with its ancestors.
type nodeResponse struct {
	Kind hierarchy.Kind `json:"kind"`
	Node hierarchy.Node `json:"node"`
	Path []string       `json:"path"`
}

func (s *Server) idOrNew(id string) string {
	if id == "" {
		return s.newID()
	}
	return id
}

func (s *Server) handleAddRegion(w http.ResponseWriter, r *http.Request) {
	var req nodeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := hierarchy.NewNode(hierarchy.KindRegion, s.idOrNew(req.ID), req.Name, "")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	region := n.(hierarchy.Region)
	region.Code = req.Code
	if err := s.store.AddRegion(region); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeNode(w, r, http.StatusCreated, region.ID)
}

// handleAddChild adds a node of the level below the parent.
func (s *Server) handleAddChild(w http.ResponseWriter, r *http.Request) {
	parentID := chi.URLParam(r, "id")
	var req nodeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	parent, _, ok := hierarchy.Find(s.store.Enterprise(), parentID)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNodeNotFound, "no node with id %q", parentID))
		return
	}
	child, err := hierarchy.NewNode(parent.Kind().ChildKind(), s.idOrNew(req.ID), req.Name, req.Type)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.AddChild(parentID, child); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeNode(w, r, http.StatusCreated, child.NodeID())
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	s.writeNode(w, r, http.StatusOK, chi.URLParam(r, "id"))
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Name string `json:"name"`
	}
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateName(req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Rename(id, req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeNode(w, r, http.StatusOK, id)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Remove(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGeometry merges a partial geometry update. Fields left out of the
// body keep their stored values.
func (s *Server) handleGeometry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch geom.Patch
	if err := s.decodeJSON(w, r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.ApplyGeometryUpdate(id, patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeNode(w, r, http.StatusOK, id)
}

func (s *Server) writeNode(w http.ResponseWriter, r *http.Request, status int, id string) {
	n, path, ok := hierarchy.Find(s.store.Enterprise(), id)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNodeNotFound, "no node with id %q", id))
		return
	}
	ids := make([]string, len(path))
	for i, p := range path {
		ids[i] = p.NodeID()
	}
	writeJSON(w, status, nodeResponse{Kind: n.Kind(), Node: n, Path: ids})
}
