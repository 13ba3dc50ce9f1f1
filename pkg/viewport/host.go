package viewport

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/geom"
)

// Surface is a render target owned by a Host.
type Surface interface {
	Resize(size geom.Size)
	Destroy()
}

// Container is the element a surface is attached to.
type Container interface {
	// Size returns the container's measured size.
	Size() geom.Size
	// Attach inserts the surface into the container.
	Attach(s Surface)
	// Contains reports whether s is currently attached.
	Contains(s Surface) bool
	// Detach removes s if it is attached.
	Detach(s Surface)
}

// Factory creates a surface of the given size. It may block; cancellation
// is signalled through ctx.
type Factory func(ctx context.Context, size geom.Size) (Surface, error)

type initCall struct {
	done chan struct{}
	err  error
}

// Host manages the single live surface of a mounted view.
//
// Creation is deferred until the container has a non-zero size. Concurrent
// Mount calls share one pending creation. A creation that completes after
// Unmount destroys its surface instead of attaching it.
type Host struct {
	factory Factory
	logger  *log.Logger

	mu        sync.Mutex
	surface   Surface
	container Container
	pending   *initCall
	gen       uint64
	ready     bool
}

// NewHost returns a host that creates surfaces with factory.
func NewHost(factory Factory, logger *log.Logger) *Host {
	if logger == nil {
		logger = log.Default()
	}
	return &Host{factory: factory, logger: logger}
}

// Mount attaches the view to c, creating the surface if needed.
//
// An existing surface is re-attached when missing from c and reused. If c
// has no size yet, Mount records c and returns; a later Resize finishes the
// mount. Errors from the factory are logged and returned with code
// SURFACE_INIT, and the host stays not ready.
func (h *Host) Mount(ctx context.Context, c Container) error {
	h.mu.Lock()
	h.container = c

	if h.surface != nil {
		if !c.Contains(h.surface) {
			c.Attach(h.surface)
		}
		h.ready = true
		h.mu.Unlock()
		return nil
	}

	if call := h.pending; call != nil {
		h.mu.Unlock()
		select {
		case <-call.done:
			return call.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	size := c.Size()
	if size.Empty() {
		h.mu.Unlock()
		h.logger.Debug("surface deferred until container has a size")
		return nil
	}

	call := &initCall{done: make(chan struct{})}
	h.pending = call
	gen := h.gen
	h.mu.Unlock()

	s, err := h.factory(ctx, size)

	h.mu.Lock()
	if h.pending == call {
		h.pending = nil
	}
	switch {
	case err != nil:
		call.err = errors.Wrap(errors.ErrCodeSurfaceInit, err, "create %.0fx%.0f surface", size.Width, size.Height)
		h.ready = false
		h.mu.Unlock()
		h.logger.Error("surface initialization failed", "err", err)

	case gen != h.gen:
		h.mu.Unlock()
		s.Destroy()
		h.logger.Debug("discarded surface created after unmount")

	default:
		h.surface = s
		h.ready = true
		target := h.container
		h.mu.Unlock()
		if target != nil && !target.Contains(s) {
			target.Attach(s)
		}
		h.logger.Debug("surface ready", "width", size.Width, "height", size.Height)
	}
	close(call.done)
	return call.err
}

// Resize resizes the live surface in place. If the view is mounted but the
// surface was never created because the container had no size, Resize
// creates it now.
func (h *Host) Resize(ctx context.Context, size geom.Size) error {
	h.mu.Lock()
	s, c, pending := h.surface, h.container, h.pending
	h.mu.Unlock()

	switch {
	case s != nil:
		if !size.Empty() {
			s.Resize(size)
		}
		return nil
	case c != nil && pending == nil && !size.Empty():
		return h.Mount(ctx, c)
	}
	return nil
}

// Unmount detaches and destroys the surface. Any creation still in flight
// is invalidated and will destroy its result.
func (h *Host) Unmount() {
	h.mu.Lock()
	h.gen++
	s, c := h.surface, h.container
	h.surface = nil
	h.container = nil
	h.pending = nil
	h.ready = false
	h.mu.Unlock()

	if s == nil {
		return
	}
	if c != nil {
		c.Detach(s)
	}
	s.Destroy()
}

// Ready reports whether a live surface is attached.
func (h *Host) Ready() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ready
}

// Surface returns the live surface, or nil.
func (h *Host) Surface() Surface {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.surface
}
