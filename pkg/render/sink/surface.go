package sink

import (
	"context"
	"sync"

	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/geom"
	"github.com/matzehuels/assetcanvas/pkg/viewport"
)

var _ viewport.Surface = (*Surface)(nil)

// Surface is an in-memory render target. It keeps the most recently
// presented frame and renders it on demand.
type Surface struct {
	mu        sync.RWMutex
	size      geom.Size
	frame     Frame
	version   uint64
	destroyed bool
}

// NewSurface creates a surface of the given size.
func NewSurface(size geom.Size) *Surface {
	return &Surface{size: size}
}

// NewSurfaceFactory returns a viewport.Factory producing Surfaces.
func NewSurfaceFactory() viewport.Factory {
	return func(ctx context.Context, size geom.Size) (viewport.Surface, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return NewSurface(size), nil
	}
}

// Resize changes the surface size in place.
func (s *Surface) Resize(size geom.Size) {
	s.mu.Lock()
	s.size = size
	s.mu.Unlock()
}

// Destroy releases the surface. Later presents fail.
func (s *Surface) Destroy() {
	s.mu.Lock()
	s.destroyed = true
	s.frame = Frame{}
	s.mu.Unlock()
}

// Present stores f as the current frame. The frame is drawn at the
// surface's size.
func (s *Surface) Present(f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return errors.New(errors.ErrCodeSurfaceInit, "surface destroyed")
	}
	f.Size = s.size
	s.frame = f
	s.version++
	return nil
}

// Frame returns the current frame and its version. The version increases
// on every Present.
func (s *Surface) Frame() (Frame, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame, s.version
}

// Size returns the surface size.
func (s *Surface) Size() geom.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// SVG renders the current frame.
func (s *Surface) SVG(opts ...SVGOption) []byte {
	f, _ := s.Frame()
	return RenderSVG(f, opts...)
}

var _ viewport.Container = (*Container)(nil)

// Container is a headless stand-in for the element a surface is attached
// to. Its size is whatever the client last reported.
type Container struct {
	mu       sync.Mutex
	size     geom.Size
	attached []viewport.Surface
}

// NewContainer returns a container of the given size. A zero size defers
// surface creation until SetSize.
func NewContainer(size geom.Size) *Container {
	return &Container{size: size}
}

// Size returns the reported size.
func (c *Container) Size() geom.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// SetSize records a new measured size.
func (c *Container) SetSize(size geom.Size) {
	c.mu.Lock()
	c.size = size
	c.mu.Unlock()
}

// Attach adds s unless it is already attached.
func (c *Container) Attach(s viewport.Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.attached {
		if a == s {
			return
		}
	}
	c.attached = append(c.attached, s)
}

// Contains reports whether s is attached.
func (c *Container) Contains(s viewport.Surface) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.attached {
		if a == s {
			return true
		}
	}
	return false
}

// Detach removes s.
func (c *Container) Detach(s viewport.Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, a := range c.attached {
		if a == s {
			c.attached = append(c.attached[:i], c.attached[i+1:]...)
			return
		}
	}
}

// Attached returns the number of attached surfaces.
func (c *Container) Attached() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.attached)
}
