// Package scene turns renderable layout nodes into drawable shape trees.
//
// A [Shape] carries everything a sink needs to draw one node: its body
// rectangle and corner radius, fill and stroke, a wrapped label and, for the
// current manipulation target, a move handle and a resize handle. Children
// are nested shapes positioned in their parent's local space, mirroring the
// parent-local geometry of the layout.
//
// Shapes are mutable so an active gesture can preview a move or resize by
// calling [Shape.MoveTo] or [Shape.Resize]; the next layout pass replaces
// them wholesale.
package scene

import (
	"github.com/matzehuels/assetcanvas/pkg/geom"
	"github.com/matzehuels/assetcanvas/pkg/layout"
)

// Part identifies which piece of a shape was hit.
type Part int

const (
	PartBody Part = iota
	PartMoveHandle
	PartResizeHandle
)

func (p Part) String() string {
	switch p {
	case PartMoveHandle:
		return "move"
	case PartResizeHandle:
		return "resize"
	}
	return "body"
}

// Drawing constants.
const (
	FillAlpha   = 0.7
	StrokeColor = "#333333"
	StrokeWidth = 2
	HandleSize  = 10
	HandleInset = 5
	HandleColor = "#1976d2"
	HandleAlpha = 0.8
)

var cornerRadii = map[layout.DisplayType]float64{
	layout.TypeRegion: 15,
	layout.TypePlant:  10,
	layout.TypeArea:   8,
}

// Label is a centered, wrapped text block.
type Label struct {
	Text      string
	Lines     []string
	X, Y      float64 // center of the text block, shape-local
	FontSize  float64
	Color     string
	WrapWidth float64
}

// Handle is a small interactive square attached to the target shape.
type Handle struct {
	Part Part
	Rect geom.Rect // shape-local
}

// Shape is one drawable node.
type Shape struct {
	ID     string
	Name   string
	Type   layout.DisplayType
	Rect   geom.Rect // parent-local
	Radius float64
	Fill   layout.Color
	Label  Label

	// Interactive is set on the manipulation target, which carries handles.
	Interactive bool
	Handles     []Handle
	Children    []*Shape
	Node        *layout.Node
}

// Option configures Build.
type Option func(*builder)

type builder struct {
	target string
}

// WithTarget marks the shape with the given id as the manipulation target.
func WithTarget(id string) Option {
	return func(b *builder) { b.target = id }
}

// Build converts n and its descendants into a shape tree.
func Build(n *layout.Node, opts ...Option) *Shape {
	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b.build(n)
}

// BuildAll builds one shape tree per node.
func BuildAll(nodes []*layout.Node, opts ...Option) []*Shape {
	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}
	shapes := make([]*Shape, 0, len(nodes))
	for _, n := range nodes {
		shapes = append(shapes, b.build(n))
	}
	return shapes
}

func (b *builder) build(n *layout.Node) *Shape {
	s := &Shape{
		ID:     n.ID,
		Name:   n.Name,
		Type:   n.Type,
		Rect:   n.Rect(),
		Radius: cornerRadii[n.Type],
		Fill:   n.Color,
		Node:   n,
	}
	s.Label = Label{
		Text:     n.Name,
		FontSize: fontSizeFor(n.Type),
		Color:    textColorFor(n.Type),
	}
	s.Interactive = b.target != "" && n.ID == b.target
	for _, c := range n.Children {
		s.Children = append(s.Children, b.build(c))
	}
	s.relayout()
	return s
}

func fontSizeFor(t layout.DisplayType) float64 {
	if v, ok := fontSizes[string(t)]; ok {
		return v
	}
	return defaultFontSize
}

func textColorFor(t layout.DisplayType) string {
	if t == layout.TypeRegion || t == layout.TypePlant {
		return "#ffffff"
	}
	return StrokeColor
}

// MoveTo repositions the shape inside its parent.
func (s *Shape) MoveTo(x, y float64) {
	s.Rect.X, s.Rect.Y = x, y
}

// Resize changes the body size and re-flows the label and handles.
func (s *Shape) Resize(w, h float64) {
	s.Rect.Width, s.Rect.Height = w, h
	s.relayout()
}

// Clone returns a deep copy of the shape tree. The layout node pointers are
// shared.
func (s *Shape) Clone() *Shape {
	c := *s
	c.Label.Lines = append([]string(nil), s.Label.Lines...)
	c.Handles = append([]Handle(nil), s.Handles...)
	c.Children = CloneAll(s.Children)
	return &c
}

// CloneAll deep-copies a list of shape trees.
func CloneAll(shapes []*Shape) []*Shape {
	if shapes == nil {
		return nil
	}
	out := make([]*Shape, len(shapes))
	for i, s := range shapes {
		out[i] = s.Clone()
	}
	return out
}

// Handle returns the handle of the given part, if present.
func (s *Shape) Handle(p Part) (Handle, bool) {
	for _, h := range s.Handles {
		if h.Part == p {
			return h, true
		}
	}
	return Handle{}, false
}

// relayout recomputes everything derived from the body size.
func (s *Shape) relayout() {
	w, h := s.Rect.Width, s.Rect.Height
	s.Label.WrapWidth = w - labelPadding
	s.Label.Lines = WrapText(s.Label.Text, s.Label.WrapWidth, s.Label.FontSize)
	s.Label.X = w / 2
	if top, ok := labelTops[string(s.Type)]; ok {
		s.Label.Y = top
	} else {
		s.Label.Y = h / 2
	}

	if !s.Interactive {
		s.Handles = nil
		return
	}
	s.Handles = []Handle{
		{Part: PartMoveHandle, Rect: geom.Rect{
			X: w - HandleSize - HandleInset, Y: HandleInset,
			Width: HandleSize, Height: HandleSize,
		}},
		{Part: PartResizeHandle, Rect: geom.Rect{
			X: w - HandleSize/2, Y: h - HandleSize/2,
			Width: HandleSize, Height: HandleSize,
		}},
	}
}

// Find returns the shape with the given id anywhere in shapes.
func Find(shapes []*Shape, id string) *Shape {
	for _, s := range shapes {
		if s.ID == id {
			return s
		}
		if found := Find(s.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits every shape depth-first in draw order, passing the stage-space
// origin of the shape's parent.
func Walk(shapes []*Shape, fn func(s *Shape, parent geom.Point)) {
	walk(shapes, geom.Point{}, fn)
}

func walk(shapes []*Shape, origin geom.Point, fn func(*Shape, geom.Point)) {
	for _, s := range shapes {
		fn(s, origin)
		walk(s.Children, origin.Add(s.Rect.Origin()), fn)
	}
}
