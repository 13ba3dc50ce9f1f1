// Package hierarchy defines the enterprise asset model: an Enterprise holding
// Regions, Plants, Areas, Locations and (possibly nested) Equipment.
//
// All values are immutable by replacement. Every mutating helper in this
// package returns a new *Enterprise that shares untouched subtrees with its
// input and copies each ancestor level on the path to the change. The input
// is never modified.
//
// Geometry stored on a node is parent-local: X and Y are offsets from the
// origin of the direct parent container, never absolute canvas coordinates.
package hierarchy

import "slices"

// Node is the sealed sum type over the five hierarchy variants.
// Only Region, Plant, Area, Location and Equipment implement it.
type Node interface {
	NodeID() string
	NodeName() string
	Kind() Kind
	Geom() Geometry
	Children() []Node

	withGeometry(Geometry) Node
	withChildren([]Node) Node
	withParent(id string) Node
}

var (
	_ Node = Region{}
	_ Node = Plant{}
	_ Node = Area{}
	_ Node = Location{}
	_ Node = Equipment{}
)

func nodes[T Node](s []T) []Node {
	out := make([]Node, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// typed converts back to a concrete slice. Callers guarantee homogeneity.
func typed[T Node](s []Node) []T {
	out := make([]T, 0, len(s))
	for _, n := range s {
		if v, ok := n.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// Region

func (r Region) NodeID() string   { return r.ID }
func (r Region) NodeName() string { return r.Name }
func (Region) Kind() Kind         { return KindRegion }
func (r Region) Geom() Geometry   { return r.Geometry }
func (r Region) Children() []Node { return nodes(r.Plants) }

func (r Region) withParent(string) Node { return r }

func (r Region) withGeometry(g Geometry) Node {
	r.Geometry = g
	return r
}

func (r Region) withChildren(c []Node) Node {
	r.Plants = typed[Plant](c)
	return r
}

// Plant

func (p Plant) NodeID() string   { return p.ID }
func (p Plant) NodeName() string { return p.Name }
func (Plant) Kind() Kind         { return KindPlant }
func (p Plant) Geom() Geometry   { return p.Geometry }
func (p Plant) Children() []Node { return nodes(p.Areas) }

func (p Plant) withParent(id string) Node {
	p.RegionID = id
	return p
}

func (p Plant) withGeometry(g Geometry) Node {
	p.Geometry = g
	return p
}

func (p Plant) withChildren(c []Node) Node {
	p.Areas = typed[Area](c)
	return p
}

// Area

func (a Area) NodeID() string   { return a.ID }
func (a Area) NodeName() string { return a.Name }
func (Area) Kind() Kind         { return KindArea }
func (a Area) Geom() Geometry   { return a.Geometry }
func (a Area) Children() []Node { return nodes(a.Locations) }

func (a Area) withParent(id string) Node {
	a.PlantID = id
	return a
}

func (a Area) withGeometry(g Geometry) Node {
	a.Geometry = g
	return a
}

func (a Area) withChildren(c []Node) Node {
	a.Locations = typed[Location](c)
	return a
}

// Location

func (l Location) NodeID() string   { return l.ID }
func (l Location) NodeName() string { return l.Name }
func (Location) Kind() Kind         { return KindLocation }
func (l Location) Geom() Geometry   { return l.Geometry }
func (l Location) Children() []Node { return nodes(l.Equipment) }

func (l Location) withParent(id string) Node {
	l.AreaID = id
	return l
}

func (l Location) withGeometry(g Geometry) Node {
	l.Geometry = g
	return l
}

func (l Location) withChildren(c []Node) Node {
	l.Equipment = typed[Equipment](c)
	return l
}

// Equipment

func (e Equipment) NodeID() string   { return e.ID }
func (e Equipment) NodeName() string { return e.Name }
func (Equipment) Kind() Kind         { return KindEquipment }
func (e Equipment) Geom() Geometry   { return e.Geometry }
func (e Equipment) Children() []Node { return nodes(e.ChildEquipment) }

func (e Equipment) withParent(id string) Node {
	e.ParentID = id
	return e
}

func (e Equipment) withGeometry(g Geometry) Node {
	e.Geometry = g
	return e
}

func (e Equipment) withChildren(c []Node) Node {
	if len(c) == 0 {
		e.ChildEquipment = nil
		return e
	}
	e.ChildEquipment = typed[Equipment](c)
	return e
}

// Clone returns a shallow copy of e with its own region slice.
func (e *Enterprise) Clone() *Enterprise {
	if e == nil {
		return nil
	}
	c := *e
	c.Regions = slices.Clone(e.Regions)
	return &c
}

// Region returns the region with the given id.
func (e *Enterprise) Region(id string) (Region, bool) {
	if e == nil {
		return Region{}, false
	}
	for _, r := range e.Regions {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}
