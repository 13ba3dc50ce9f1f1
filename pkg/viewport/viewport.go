// Package viewport owns the zoom transform and the render-surface lifecycle
// of one mounted canvas.
//
// [Viewport] maps wheel input to a bounded multiplicative scale and converts
// screen coordinates into unscaled stage units. [Host] creates, resizes and
// destroys the single render surface behind a view.
package viewport

import (
	"sync"

	"github.com/matzehuels/assetcanvas/pkg/geom"
)

// Scale bounds and wheel factors.
const (
	MinScale = 0.1
	MaxScale = 3.0

	zoomOut = 0.9
	zoomIn  = 1.1
)

// State is a snapshot of the transform.
type State struct {
	Scale  float64    `json:"scale"`
	Pan    geom.Point `json:"pan"`
	Size   geom.Size  `json:"size"`
	Origin geom.Point `json:"origin"`
}

// Viewport holds the zoom transform. Pan is reserved and stays at the origin.
// It is safe for concurrent use.
type Viewport struct {
	mu     sync.RWMutex
	scale  float64
	pan    geom.Point
	size   geom.Size
	origin geom.Point
}

// New returns a viewport at scale 1 for a surface of the given size.
func New(size geom.Size) *Viewport {
	return &Viewport{scale: 1, size: size}
}

// Wheel applies one wheel tick. Positive deltaY zooms out by 0.9, negative
// zooms in by 1.1; the result is clamped to [MinScale, MaxScale]. A zero
// delta leaves the scale alone. It returns the new scale.
func (v *Viewport) Wheel(deltaY float64) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case deltaY > 0:
		v.scale = geom.Clamp(v.scale*zoomOut, MinScale, MaxScale)
	case deltaY < 0:
		v.scale = geom.Clamp(v.scale*zoomIn, MinScale, MaxScale)
	}
	return v.scale
}

// Scale returns the current scale factor.
func (v *Viewport) Scale() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.scale
}

// SetScale sets the scale, clamped to the allowed range.
func (v *Viewport) SetScale(s float64) {
	v.mu.Lock()
	v.scale = geom.Clamp(s, MinScale, MaxScale)
	v.mu.Unlock()
}

// Size returns the surface size.
func (v *Viewport) Size() geom.Size {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.size
}

// SetSize records a new surface size.
func (v *Viewport) SetSize(s geom.Size) {
	v.mu.Lock()
	v.size = s
	v.mu.Unlock()
}

// SetOrigin records the screen position of the surface's top-left corner.
func (v *Viewport) SetOrigin(p geom.Point) {
	v.mu.Lock()
	v.origin = p
	v.mu.Unlock()
}

// ToLocal converts a screen position into unscaled stage units:
// (screen - origin - pan) / scale.
func (v *Viewport) ToLocal(screen geom.Point) geom.Point {
	v.mu.RLock()
	defer v.mu.RUnlock()
	p := screen.Sub(v.origin).Sub(v.pan)
	return geom.Point{X: p.X / v.scale, Y: p.Y / v.scale}
}

// State returns a snapshot of the transform.
func (v *Viewport) State() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return State{Scale: v.scale, Pan: v.pan, Size: v.size, Origin: v.origin}
}
