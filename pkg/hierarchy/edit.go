package hierarchy

import (
	"slices"

	"github.com/matzehuels/assetcanvas/pkg/errors"
)

// AddRegion appends region to e. The region id must be valid and unused.
func AddRegion(e *Enterprise, region Region) (*Enterprise, error) {
	if e == nil {
		return nil, errors.New(errors.ErrCodeInvalidHierarchy, "no enterprise loaded")
	}
	if err := checkNew(e, region); err != nil {
		return e, err
	}
	out := e.Clone()
	out.Regions = append(out.Regions, region)
	return out, nil
}

// AddChild appends child to the children of parentID. The child kind must be
// the one the parent holds (Region→Plant, ..., Location→Equipment,
// Equipment→Equipment). The child's parent reference is set to parentID.
func AddChild(e *Enterprise, parentID string, child Node) (*Enterprise, error) {
	if child == nil {
		return e, errors.New(errors.ErrCodeInvalidInput, "child cannot be nil")
	}
	parent, _, ok := Find(e, parentID)
	if !ok {
		return e, errors.New(errors.ErrCodeNodeNotFound, "no node with id %q", parentID)
	}
	if !CanContain(parent.Kind(), child.Kind()) {
		return e, errors.New(errors.ErrCodeInvalidKind, "%s %q cannot contain a %s",
			parent.Kind(), parentID, child.Kind())
	}
	if err := checkNew(e, child); err != nil {
		return e, err
	}
	child = child.withParent(parentID)
	out, _ := Replace(e, parentID, func(n Node) Node {
		return n.withChildren(append(n.Children(), child))
	})
	return out, nil
}

// Remove deletes the node id and its whole subtree.
func Remove(e *Enterprise, id string) (*Enterprise, error) {
	if e == nil {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "no node with id %q", id)
	}
	for i, r := range e.Regions {
		if r.ID == id {
			out := e.Clone()
			out.Regions = slices.Delete(out.Regions, i, i+1)
			return out, nil
		}
	}
	for i, r := range e.Regions {
		next, ok := remove(r, id)
		if !ok {
			continue
		}
		out := e.Clone()
		out.Regions[i] = next.(Region)
		return out, nil
	}
	return e, errors.New(errors.ErrCodeNodeNotFound, "no node with id %q", id)
}

func remove(n Node, id string) (Node, bool) {
	kids := n.Children()
	for i, c := range kids {
		if c.NodeID() == id {
			return n.withChildren(slices.Delete(kids, i, i+1)), true
		}
		if next, ok := remove(c, id); ok {
			kids[i] = next
			return n.withChildren(kids), true
		}
	}
	return n, false
}

// Rename sets the display name of node id.
func Rename(e *Enterprise, id, name string) (*Enterprise, error) {
	if err := errors.ValidateName(name); err != nil {
		return e, err
	}
	out, ok := Replace(e, id, func(n Node) Node { return withName(n, name) })
	if !ok {
		return e, errors.New(errors.ErrCodeNodeNotFound, "no node with id %q", id)
	}
	return out, nil
}

func withName(n Node, name string) Node {
	switch v := n.(type) {
	case Region:
		v.Name = name
		return v
	case Plant:
		v.Name = name
		return v
	case Area:
		v.Name = name
		return v
	case Location:
		v.Name = name
		return v
	case Equipment:
		v.Name = name
		return v
	}
	return n
}

// checkNew validates the ids of n's subtree and rejects any already in use.
func checkNew(e *Enterprise, n Node) error {
	seen := make(map[string]bool)
	Walk(e, func(x Node, _ []Node) bool {
		seen[x.NodeID()] = true
		return true
	})
	var err error
	visit(n, func(x Node) bool {
		if err = errors.ValidateID(x.NodeID()); err != nil {
			return false
		}
		if seen[x.NodeID()] {
			err = errors.New(errors.ErrCodeDuplicateID, "id %q already exists", x.NodeID())
			return false
		}
		seen[x.NodeID()] = true
		return true
	})
	return err
}

// visit walks n's subtree until fn returns false.
func visit(n Node, fn func(Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children() {
		if !visit(c, fn) {
			return false
		}
	}
	return true
}

// Relink rewrites every parent back-reference in e to match the tree. It
// modifies e in place and is meant for freshly decoded values only.
func Relink(e *Enterprise) {
	if e == nil {
		return
	}
	for i, r := range e.Regions {
		e.Regions[i] = relink(r).(Region)
	}
}

func relink(n Node) Node {
	kids := n.Children()
	if len(kids) == 0 {
		return n
	}
	for i, c := range kids {
		kids[i] = relink(c.withParent(n.NodeID()))
	}
	return n.withChildren(kids)
}

// NewNode returns an empty node of kind k. Equipment gets equipType as its
// type; other kinds ignore it.
func NewNode(k Kind, id, name, equipType string) (Node, error) {
	if err := errors.ValidateID(id); err != nil {
		return nil, err
	}
	if err := errors.ValidateName(name); err != nil {
		return nil, err
	}
	switch k {
	case KindRegion:
		return Region{ID: id, Name: name, Plants: []Plant{}}, nil
	case KindPlant:
		return Plant{ID: id, Name: name, Areas: []Area{}}, nil
	case KindArea:
		return Area{ID: id, Name: name, Locations: []Location{}}, nil
	case KindLocation:
		return Location{ID: id, Name: name, Equipment: []Equipment{}}, nil
	case KindEquipment:
		return Equipment{ID: id, Name: name, Type: equipType, Attributes: []Attribute{}}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidKind, "unknown kind %s", k)
}
