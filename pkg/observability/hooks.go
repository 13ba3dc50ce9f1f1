// Package observability lets the host process watch layout passes, pointer
// gestures, storage round trips and HTTP traffic.
//
// Each category has an interface, a no-op default and a setter. The
// canvas packages only ever call the getters, so instrumentation is chosen
// by whoever owns main:
//
//	observability.UseLogger(logger) // debug lines for every category
//	observability.SetStorageHooks(myMetrics{})
//
// Emitting an event:
//
//	start := time.Now()
//	nodes := layout.Overview(e)
//	observability.Layout().OnDerive("overview", len(nodes), time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout engine.
type LayoutHooks interface {
	// OnDerive records one layout pass for the given drill mode.
	OnDerive(mode string, nodeCount int, duration time.Duration)
}

// =============================================================================
// Gesture Hooks
// =============================================================================

// GestureHooks receives events from the pointer gesture controller.
type GestureHooks interface {
	// OnSelect records a committed single click.
	OnSelect(nodeID string)

	// OnDrill records a committed double click.
	OnDrill(nodeID string)

	// OnCommit records the end of a move or resize session.
	OnCommit(nodeID, gesture string, duration time.Duration)
}

// =============================================================================
// Storage Hooks
// =============================================================================

// StorageHooks receives events from persistence backends.
type StorageHooks interface {
	// OnLoad records a snapshot read.
	OnLoad(ctx context.Context, backend string, duration time.Duration, err error)

	// OnSave records a snapshot write.
	OnSave(ctx context.Context, backend string, size int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks ignores layout events.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnDerive(string, int, time.Duration) {}

// NoopGestureHooks ignores gesture events.
type NoopGestureHooks struct{}

func (NoopGestureHooks) OnSelect(string)                        {}
func (NoopGestureHooks) OnDrill(string)                         {}
func (NoopGestureHooks) OnCommit(string, string, time.Duration) {}

// NoopStorageHooks ignores storage events.
type NoopStorageHooks struct{}

func (NoopStorageHooks) OnLoad(context.Context, string, time.Duration, error)      {}
func (NoopStorageHooks) OnSave(context.Context, string, int, time.Duration, error) {}

// NoopHTTPHooks ignores HTTP events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                     {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// slot holds the current hooks of one category.
type slot[T any] struct {
	mu   sync.RWMutex
	noop T
	cur  T
}

func newSlot[T any](noop T) *slot[T] { return &slot[T]{noop: noop, cur: noop} }

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *slot[T]) set(h T) {
	s.mu.Lock()
	s.cur = h
	s.mu.Unlock()
}

func (s *slot[T]) reset() { s.set(s.noop) }

var (
	layoutSlot  = newSlot[LayoutHooks](NoopLayoutHooks{})
	gestureSlot = newSlot[GestureHooks](NoopGestureHooks{})
	storageSlot = newSlot[StorageHooks](NoopStorageHooks{})
	httpSlot    = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetLayoutHooks registers layout hooks. A nil h is ignored, as for the
// other setters.
func SetLayoutHooks(h LayoutHooks) {
	if h != nil {
		layoutSlot.set(h)
	}
}

func SetGestureHooks(h GestureHooks) {
	if h != nil {
		gestureSlot.set(h)
	}
}

func SetStorageHooks(h StorageHooks) {
	if h != nil {
		storageSlot.set(h)
	}
}

func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.set(h)
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks { return layoutSlot.get() }

// Gesture returns the registered gesture hooks.
func Gesture() GestureHooks { return gestureSlot.get() }

// Storage returns the registered storage hooks.
func Storage() StorageHooks { return storageSlot.get() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.get() }

// Reset restores the no-op hooks in every category.
func Reset() {
	layoutSlot.reset()
	gestureSlot.reset()
	storageSlot.reset()
	httpSlot.reset()
}
