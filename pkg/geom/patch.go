package geom

// Patch is a partial geometry update. A nil field leaves the corresponding
// value unchanged.
type Patch struct {
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// Float returns a pointer to v, for building patches and optional fields.
func Float(v float64) *float64 { return &v }

// MovePatch patches only the position.
func MovePatch(x, y float64) Patch { return Patch{X: Float(x), Y: Float(y)} }

// ResizePatch patches only the size.
func ResizePatch(w, h float64) Patch { return Patch{Width: Float(w), Height: Float(h)} }

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.X == nil && p.Y == nil && p.Width == nil && p.Height == nil
}

// ApplyTo returns r with the patched fields replaced.
func (p Patch) ApplyTo(r Rect) Rect {
	if p.X != nil {
		r.X = *p.X
	}
	if p.Y != nil {
		r.Y = *p.Y
	}
	if p.Width != nil {
		r.Width = *p.Width
	}
	if p.Height != nil {
		r.Height = *p.Height
	}
	return r
}
