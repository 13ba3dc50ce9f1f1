package scene

import "github.com/matzehuels/assetcanvas/pkg/geom"

// Hit describes the topmost shape part under a point.
type Hit struct {
	Shape *Shape
	Part  Part
	// Origin is the stage-space origin of the shape's parent. Adding it to
	// Shape.Rect's position gives the shape's stage-space position.
	Origin geom.Point
}

// HitTest returns the topmost hit for p, given in the same space as the
// shapes' parent (stage space for top-level shapes). Within a shape, handles
// win over children and children win over the body. Later siblings are drawn
// on top of earlier ones and are tested first.
func HitTest(shapes []*Shape, p geom.Point) (Hit, bool) {
	return hitTest(shapes, p, geom.Point{})
}

func hitTest(shapes []*Shape, p, origin geom.Point) (Hit, bool) {
	for i := len(shapes) - 1; i >= 0; i-- {
		s := shapes[i]
		local := p.Sub(s.Rect.Origin())

		for j := len(s.Handles) - 1; j >= 0; j-- {
			if s.Handles[j].Rect.Contains(local) {
				return Hit{Shape: s, Part: s.Handles[j].Part, Origin: origin}, true
			}
		}
		if hit, ok := hitTest(s.Children, local, origin.Add(s.Rect.Origin())); ok {
			return hit, true
		}
		body := geom.Rect{Width: s.Rect.Width, Height: s.Rect.Height}
		if body.Contains(local) {
			return Hit{Shape: s, Part: PartBody, Origin: origin}, true
		}
	}
	return Hit{}, false
}
