package layout

import (
	"fmt"

	"github.com/matzehuels/assetcanvas/pkg/geom"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
)

// DisplayType is the visual category of a renderable node.
type DisplayType string

const (
	TypeRegion   DisplayType = "region"
	TypePlant    DisplayType = "plant"
	TypeArea     DisplayType = "area"
	TypeLocation DisplayType = "location"
)

// DisplayTypeOf maps a hierarchy kind to its display type. Equipment has no
// canvas representation and maps to "".
func DisplayTypeOf(k hierarchy.Kind) DisplayType {
	switch k {
	case hierarchy.KindRegion:
		return TypeRegion
	case hierarchy.KindPlant:
		return TypePlant
	case hierarchy.KindArea:
		return TypeArea
	case hierarchy.KindLocation:
		return TypeLocation
	}
	return ""
}

// Color is a 24-bit RGB fill color.
type Color uint32

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string { return fmt.Sprintf("#%06x", uint32(c)&0xffffff) }

// RGB splits the color into its channels.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

const (
	ColorAMER     Color = 0x4caf50
	ColorEMEA     Color = 0x2196f3
	ColorAPAC     Color = 0xff9800
	ColorFallback Color = 0x808080
	ColorPlant    Color = 0x9e9e9e
	ColorArea     Color = 0xbdbdbd
	ColorLocation Color = 0xe0e0e0
)

var regionColors = map[hierarchy.RegionCode]Color{
	hierarchy.CodeAMER: ColorAMER,
	hierarchy.CodeEMEA: ColorEMEA,
	hierarchy.CodeAPAC: ColorAPAC,
}

// RegionColor returns the fill for a region code, or ColorFallback.
func RegionColor(code hierarchy.RegionCode) Color {
	if c, ok := regionColors[code]; ok {
		return c
	}
	return ColorFallback
}

// KindColor returns the fill for plants, areas and locations. Other kinds
// get ColorFallback; regions are colored by code.
func KindColor(k hierarchy.Kind) Color {
	switch k {
	case hierarchy.KindPlant:
		return ColorPlant
	case hierarchy.KindArea:
		return ColorArea
	case hierarchy.KindLocation:
		return ColorLocation
	}
	return ColorFallback
}

// Node is one renderable rectangle. X and Y are relative to the parent
// node's origin (or to the stage for top-level nodes).
type Node struct {
	ID       string
	Name     string
	Type     DisplayType
	X, Y     float64
	Width    float64
	Height   float64
	Color    Color
	Data     hierarchy.Node
	Children []*Node
}

// Rect returns the node's parent-local rectangle.
func (n *Node) Rect() geom.Rect {
	return geom.Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
}

// SetRect overwrites the node's geometry. Only used for transient previews.
func (n *Node) SetRect(r geom.Rect) {
	n.X, n.Y, n.Width, n.Height = r.X, r.Y, r.Width, r.Height
}

// HasChild reports whether id is a direct child of n.
func (n *Node) HasChild(id string) bool {
	for _, c := range n.Children {
		if c.ID == id {
			return true
		}
	}
	return false
}

func newNode(src hierarchy.Node, color Color, def geom.Rect) *Node {
	r := src.Geom().Resolve(def)
	return &Node{
		ID:     src.NodeID(),
		Name:   src.NodeName(),
		Type:   DisplayTypeOf(src.Kind()),
		X:      r.X,
		Y:      r.Y,
		Width:  r.Width,
		Height: r.Height,
		Color:  color,
		Data:   src,
	}
}

// Find returns the node with the given id anywhere in nodes.
func Find(nodes []*Node, id string) *Node {
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
		if found := Find(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// Parent returns the node whose direct children include id.
func Parent(nodes []*Node, id string) *Node {
	for _, n := range nodes {
		if n.HasChild(id) {
			return n
		}
		if p := Parent(n.Children, id); p != nil {
			return p
		}
	}
	return nil
}

// Count returns the total number of nodes in the forest.
func Count(nodes []*Node) int {
	total := 0
	for _, n := range nodes {
		total += 1 + Count(n.Children)
	}
	return total
}

// Absolute returns the stage-space rectangle of node id by summing the
// origins of all its ancestors.
func Absolute(nodes []*Node, id string) (geom.Rect, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n.Rect(), true
		}
		if r, ok := Absolute(n.Children, id); ok {
			r.X += n.X
			r.Y += n.Y
			return r, true
		}
	}
	return geom.Rect{}, false
}
