// Package gesture implements the pointer state machine behind direct
// manipulation on the canvas.
//
// # Clicks
//
// A press on a shape body arms a single-click timer for that node. If no
// second press arrives within [Config.DoubleClick] the timer fires a select
// intent. A second press inside the window stops the timer and fires a drill
// intent instead, so a double click never also produces a select.
//
// # Move and Resize
//
// Pressing a handle starts a session. Pointer deltas arrive in screen pixels
// and are divided by the viewport scale, so the same on-screen motion moves a
// shape by the same logical distance at every zoom level:
//
//	x' = snap(start.X + dx/scale)
//	w' = max(min, snap(max(min, start.W + dx/scale)))
//
// Every move emits a preview; release commits an [Update] when the geometry
// actually changed. Starting a session cancels any pending single click on
// the same node.
//
// The controller never touches scene or hierarchy state itself. Handlers are
// invoked after the controller's lock is released, so they may call back
// into the controller.
package gesture

import (
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/matzehuels/assetcanvas/pkg/geom"
	"github.com/matzehuels/assetcanvas/pkg/observability"
)

// Config tunes the state machine.
type Config struct {
	// DoubleClick is the window in which a second press counts as a
	// double click.
	DoubleClick time.Duration
	// Grid is the snapping unit. Zero disables snapping.
	Grid float64
	// MinSize bounds resize results from below.
	MinSize geom.Size
	// MoveTolerance, when positive, cancels a pending click if the pointer
	// travels further than this many screen pixels while still pressed.
	// Zero keeps clicks independent of pointer travel.
	MoveTolerance float64
}

// DefaultConfig returns the stock timings and limits.
func DefaultConfig() Config {
	return Config{
		DoubleClick: 250 * time.Millisecond,
		Grid:        10,
		MinSize:     geom.Size{Width: 120, Height: 60},
	}
}

// Update is a committed geometry change for one node.
type Update struct {
	NodeID string
	Patch  geom.Patch
}

// Handlers receive intents. Nil handlers are skipped.
type Handlers struct {
	Select  func(id string)
	Drill   func(id string)
	Preview func(id string, r geom.Rect)
	Commit  func(u Update)
}

// Kind is the type of an active session.
type Kind int

const (
	None Kind = iota
	Moving
	Resizing
)

func (k Kind) String() string {
	switch k {
	case Moving:
		return "move"
	case Resizing:
		return "resize"
	}
	return "none"
}

type armed struct {
	timer Timer
	seq   uint64
}

type session struct {
	kind    Kind
	id      string
	start   geom.Rect
	current geom.Rect
	pointer geom.Point
	scale   float64
	began   time.Time
}

type press struct {
	id string
	at geom.Point
}

// Controller is the gesture state machine. It is safe for concurrent use.
type Controller struct {
	cfg   Config
	clock Clock
	h     Handlers

	mu      sync.Mutex
	seq     uint64
	clicks  map[string]armed
	press   *press
	session *session
}

// New creates a controller. A nil clock uses the wall clock.
func New(cfg Config, clock Clock, h Handlers) *Controller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Controller{cfg: cfg, clock: clock, h: h, clicks: make(map[string]armed)}
}

// PressBody registers a primary-button press on the body of node id.
// pointer is the press position in screen pixels.
func (c *Controller) PressBody(id string, pointer geom.Point) {
	c.mu.Lock()
	c.press = &press{id: id, at: pointer}
	if a, ok := c.clicks[id]; ok {
		a.timer.Stop()
		delete(c.clicks, id)
		c.mu.Unlock()
		c.drill(id)
		return
	}
	c.seq++
	seq := c.seq
	c.clicks[id] = armed{seq: seq, timer: c.clock.AfterFunc(c.cfg.DoubleClick, func() { c.fire(id, seq) })}
	c.mu.Unlock()
}

func (c *Controller) fire(id string, seq uint64) {
	c.mu.Lock()
	a, ok := c.clicks[id]
	if !ok || a.seq != seq {
		c.mu.Unlock()
		return
	}
	delete(c.clicks, id)
	c.mu.Unlock()

	observability.Gesture().OnSelect(id)
	if c.h.Select != nil {
		c.h.Select(id)
	}
}

func (c *Controller) drill(id string) {
	observability.Gesture().OnDrill(id)
	if c.h.Drill != nil {
		c.h.Drill(id)
	}
}

// BeginMove starts a move session for node id from its current parent-local
// rect. pointer is in screen pixels; scale is the viewport scale.
func (c *Controller) BeginMove(id string, start geom.Rect, pointer geom.Point, scale float64) {
	c.begin(Moving, id, start, pointer, scale)
}

// BeginResize starts a resize session. Arguments match BeginMove.
func (c *Controller) BeginResize(id string, start geom.Rect, pointer geom.Point, scale float64) {
	c.begin(Resizing, id, start, pointer, scale)
}

func (c *Controller) begin(kind Kind, id string, start geom.Rect, pointer geom.Point, scale float64) {
	if scale <= 0 {
		scale = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelClickLocked(id)
	c.press = nil
	c.session = &session{
		kind:    kind,
		id:      id,
		start:   start,
		current: start,
		pointer: pointer,
		scale:   scale,
		began:   c.clock.Now(),
	}
}

func (c *Controller) cancelClickLocked(id string) {
	if a, ok := c.clicks[id]; ok {
		a.timer.Stop()
		delete(c.clicks, id)
	}
}

// Active returns the kind and node id of the running session.
func (c *Controller) Active() (Kind, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return None, ""
	}
	return c.session.kind, c.session.id
}

// Move feeds a pointer position in screen pixels. During a session it emits
// a preview of the new geometry and reports true.
func (c *Controller) Move(pointer geom.Point) bool {
	c.mu.Lock()
	s := c.session
	if s == nil {
		c.checkToleranceLocked(pointer)
		c.mu.Unlock()
		return false
	}
	s.current = c.apply(s, pointer)
	id, r := s.id, s.current
	c.mu.Unlock()

	if c.h.Preview != nil {
		c.h.Preview(id, r)
	}
	return true
}

func (c *Controller) checkToleranceLocked(pointer geom.Point) {
	if c.cfg.MoveTolerance <= 0 || c.press == nil {
		return
	}
	d := pointer.Sub(c.press.at)
	if math.Hypot(d.X, d.Y) > c.cfg.MoveTolerance {
		c.cancelClickLocked(c.press.id)
		c.press = nil
	}
}

// apply computes the session geometry for a pointer position.
func (c *Controller) apply(s *session, pointer geom.Point) geom.Rect {
	raw := pointer.Sub(s.pointer)
	d := geom.Point{X: raw.X / s.scale, Y: raw.Y / s.scale}
	r := s.start
	switch s.kind {
	case Moving:
		r.X = geom.Snap(s.start.X+d.X, c.cfg.Grid)
		r.Y = geom.Snap(s.start.Y+d.Y, c.cfg.Grid)
	case Resizing:
		minW, minH := c.cfg.MinSize.Width, c.cfg.MinSize.Height
		r.Width = math.Max(minW, geom.Snap(math.Max(minW, s.start.Width+d.X), c.cfg.Grid))
		r.Height = math.Max(minH, geom.Snap(math.Max(minH, s.start.Height+d.Y), c.cfg.Grid))
	}
	return r
}

// Release ends the press and any session. A session whose geometry changed
// is committed and reported as true.
func (c *Controller) Release(pointer geom.Point) bool {
	c.mu.Lock()
	c.press = nil
	s := c.session
	c.session = nil
	if s == nil {
		c.mu.Unlock()
		return false
	}
	final := c.apply(s, pointer)
	c.mu.Unlock()

	if final == s.start {
		return false
	}
	u := Update{NodeID: s.id}
	switch s.kind {
	case Moving:
		u.Patch = geom.MovePatch(final.X, final.Y)
	case Resizing:
		u.Patch = geom.ResizePatch(final.Width, final.Height)
	}
	observability.Gesture().OnCommit(s.id, s.kind.String(), c.clock.Since(s.began))
	if c.h.Commit != nil {
		c.h.Commit(u)
	}
	return true
}

// Cancel aborts the running session without committing. The last preview is
// reverted by emitting the session's start geometry.
func (c *Controller) Cancel() {
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.press = nil
	c.mu.Unlock()

	if s != nil && s.current != s.start && c.h.Preview != nil {
		c.h.Preview(s.id, s.start)
	}
}

// Stop cancels the session and every pending click timer. Used on teardown.
func (c *Controller) Stop() {
	c.mu.Lock()
	for id, a := range c.clicks {
		a.timer.Stop()
		delete(c.clicks, id)
	}
	c.session = nil
	c.press = nil
	c.mu.Unlock()
}

// Pending reports whether a single click is armed for id.
func (c *Controller) Pending(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.clicks[id]
	return ok
}
