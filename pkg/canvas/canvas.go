package canvas

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/assetcanvas/pkg/drill"
	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/geom"
	"github.com/matzehuels/assetcanvas/pkg/gesture"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
	"github.com/matzehuels/assetcanvas/pkg/layout"
	"github.com/matzehuels/assetcanvas/pkg/render/sink"
	"github.com/matzehuels/assetcanvas/pkg/scene"
	"github.com/matzehuels/assetcanvas/pkg/store"
	"github.com/matzehuels/assetcanvas/pkg/viewport"
)

// Store is the application state the canvas reads and edits.
type Store interface {
	Enterprise() *hierarchy.Enterprise
	SelectedID() string
	SetSelectedItem(id string) error
	ApplyGeometryUpdate(id string, patch geom.Patch) error
	Subscribe(fn store.Listener) func()
}

// Ensure *store.Store implements Store.
var _ Store = (*store.Store)(nil)

// Button is a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// EventKind says what happened on the canvas.
type EventKind string

const (
	EventSelect EventKind = "select"
	EventDrill  EventKind = "drill"
	EventBack   EventKind = "back"
	EventRender EventKind = "render"
)

// Event is delivered to canvas listeners.
type Event struct {
	Kind   EventKind `json:"kind"`
	NodeID string    `json:"nodeId,omitempty"`
	Status Status    `json:"status"`
}

// Listener receives canvas events.
type Listener func(Event)

// Status summarizes what the canvas shows.
type Status struct {
	Mode        drill.Mode `json:"mode"`
	Breadcrumb  []string   `json:"breadcrumb"`
	BackVisible bool       `json:"backVisible"`
	Scale       float64    `json:"scale"`
	Size        geom.Size  `json:"size"`
	Selected    string     `json:"selected,omitempty"`
	Shapes      int        `json:"shapes"`
	Gesture     string     `json:"gesture"`
	Ready       bool       `json:"ready"`
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(c *Canvas) { c.logger = l } }

// WithClock sets the clock behind click timing.
func WithClock(clk gesture.Clock) Option { return func(c *Canvas) { c.clock = clk } }

// WithGestureConfig overrides the gesture timings and limits.
func WithGestureConfig(cfg gesture.Config) Option { return func(c *Canvas) { c.gcfg = cfg } }

// WithSurfaceFactory sets how render surfaces are created.
func WithSurfaceFactory(f viewport.Factory) Option { return func(c *Canvas) { c.factory = f } }

// WithSize sets the stage size used before the first mount.
func WithSize(s geom.Size) Option { return func(c *Canvas) { c.initial = s } }

// presenter is a surface that accepts frames.
type presenter interface {
	Present(f sink.Frame) error
}

// sizer is a container whose size the canvas may update.
type sizer interface {
	SetSize(s geom.Size)
}

// Canvas is one mounted view. It is safe for concurrent use.
type Canvas struct {
	store   Store
	logger  *log.Logger
	clock   gesture.Clock
	gcfg    gesture.Config
	factory viewport.Factory
	initial geom.Size

	nav      *drill.Navigator
	vp       *viewport.Viewport
	host     *viewport.Host
	gestures *gesture.Controller

	mu        sync.Mutex
	container viewport.Container
	nodes     []*layout.Node
	shapes    []*scene.Shape
	state     drill.State
	unsub     func()

	lmu       sync.Mutex
	listeners map[int]Listener
	nextID    int
}

// New creates an unmounted canvas over st.
func New(st Store, opts ...Option) *Canvas {
	c := &Canvas{
		store:     st,
		logger:    log.New(io.Discard),
		gcfg:      gesture.DefaultConfig(),
		factory:   sink.NewSurfaceFactory(),
		initial:   geom.Size{Width: 800, Height: 600},
		nav:       drill.NewNavigator(),
		state:     drill.State{Mode: drill.Overview},
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.vp = viewport.New(c.initial)
	c.host = viewport.NewHost(c.factory, c.logger)
	c.gestures = gesture.New(c.gcfg, c.clock, gesture.Handlers{
		Select:  c.onSelect,
		Drill:   c.onDrill,
		Preview: c.onPreview,
		Commit:  c.onCommit,
	})
	return c
}

// =============================================================================
// Lifecycle
// =============================================================================

// Mount attaches the canvas to container, subscribes to the store and
// draws the first frame. A container without a size defers the surface
// until Resize.
func (c *Canvas) Mount(ctx context.Context, container viewport.Container) error {
	if size := container.Size(); !size.Empty() {
		c.vp.SetSize(size)
	}

	c.mu.Lock()
	c.container = container
	if c.unsub == nil {
		c.unsub = c.store.Subscribe(c.onStore)
	}
	c.mu.Unlock()

	err := c.host.Mount(ctx, container)
	c.Refresh()
	return err
}

// Unmount stops pending gestures, destroys the surface and unsubscribes
// from the store.
func (c *Canvas) Unmount() {
	c.gestures.Stop()
	c.host.Unmount()

	c.mu.Lock()
	unsub := c.unsub
	c.unsub = nil
	c.container = nil
	c.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// Resize records a new stage size, resizes the surface in place and
// re-derives the stage. Drill grids depend on the stage size.
func (c *Canvas) Resize(ctx context.Context, size geom.Size) error {
	if size.Empty() {
		return nil
	}
	c.mu.Lock()
	container := c.container
	c.mu.Unlock()
	if s, ok := container.(sizer); ok {
		s.SetSize(size)
	}

	c.vp.SetSize(size)
	err := c.host.Resize(ctx, size)
	c.Refresh()
	return err
}

// Ready reports whether a surface is attached.
func (c *Canvas) Ready() bool { return c.host.Ready() }

// Surface returns the live render surface, or nil.
func (c *Canvas) Surface() viewport.Surface { return c.host.Surface() }

// =============================================================================
// Input
// =============================================================================

// Wheel zooms the stage by one wheel tick and returns the new scale.
func (c *Canvas) Wheel(deltaY float64) float64 {
	before := c.vp.Scale()
	scale := c.vp.Wheel(deltaY)
	if scale != before {
		c.mu.Lock()
		c.presentLocked()
		c.mu.Unlock()
		c.emit(Event{Kind: EventRender})
	}
	return scale
}

// SetOrigin records where the stage's top-left corner sits on screen.
func (c *Canvas) SetOrigin(p geom.Point) { c.vp.SetOrigin(p) }

// PointerDown handles a button press at screen position p. Only the left
// button is handled, and only while mounted. It reports whether a shape
// was hit.
func (c *Canvas) PointerDown(p geom.Point, button Button) bool {
	if button != ButtonLeft || !c.host.Ready() {
		return false
	}

	c.mu.Lock()
	hit, ok := scene.HitTest(c.shapes, c.vp.ToLocal(p))
	var (
		id   string
		rect geom.Rect
	)
	if ok {
		// Previews mutate shapes in place; copy before unlocking.
		id, rect = hit.Shape.ID, hit.Shape.Rect
	}
	c.mu.Unlock()
	if !ok {
		return false
	}

	scale := c.vp.Scale()
	switch hit.Part {
	case scene.PartMoveHandle:
		c.gestures.BeginMove(id, rect, p, scale)
	case scene.PartResizeHandle:
		c.gestures.BeginResize(id, rect, p, scale)
	default:
		c.gestures.PressBody(id, p)
	}
	return true
}

// PointerMove feeds pointer motion. It reports whether a move or resize
// preview was produced.
func (c *Canvas) PointerMove(p geom.Point) bool { return c.gestures.Move(p) }

// PointerUp ends the press. It reports whether a geometry change was
// committed.
func (c *Canvas) PointerUp(p geom.Point) bool { return c.gestures.Release(p) }

// PointerCancel aborts a running move or resize without committing.
func (c *Canvas) PointerCancel() { c.gestures.Cancel() }

// Back goes one drill level up. It reports whether anything changed.
func (c *Canvas) Back() bool {
	if !c.nav.Back() {
		return false
	}
	c.Refresh()
	c.emit(Event{Kind: EventBack})
	return true
}

// Open drills into id when a drill applies and selects it otherwise, so
// opening a region enters region mode. It reports false when id is not on
// the stage.
func (c *Canvas) Open(id string) bool {
	n, nodes := c.node(id)
	if n == nil {
		return false
	}
	if !c.drillInto(n, nodes) {
		c.selectNode(n)
	}
	return true
}

// =============================================================================
// Stage
// =============================================================================

// Refresh derives the stage from the current enterprise and presents it.
func (c *Canvas) Refresh() {
	c.mu.Lock()
	e := c.store.Enterprise()
	nodes, st := c.nav.Derive(e, c.vp.Size())
	c.nodes = nodes
	c.state = st
	c.shapes = scene.BuildAll(nodes, scene.WithTarget(c.store.SelectedID()))
	c.presentLocked()
	c.mu.Unlock()

	c.emit(Event{Kind: EventRender})
}

// Frame returns a copy of the current stage as a renderable frame.
func (c *Canvas) Frame() sink.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameLocked(scene.CloneAll(c.shapes))
}

func (c *Canvas) frameLocked(shapes []*scene.Shape) sink.Frame {
	f := sink.Frame{Shapes: shapes, Scale: c.vp.Scale(), Size: c.vp.Size()}
	if len(shapes) == 0 {
		f.Placeholder = sink.Placeholder
	}
	return f
}

// presentLocked pushes the current stage to the surface, if there is one.
func (c *Canvas) presentLocked() {
	p, ok := c.host.Surface().(presenter)
	if !ok {
		return
	}
	if err := p.Present(c.frameLocked(scene.CloneAll(c.shapes))); err != nil {
		c.logger.Debug("present failed", "err", err)
	}
}

// Nodes returns the layout nodes currently on the stage.
func (c *Canvas) Nodes() []*layout.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nodes
}

// Status returns a summary of the canvas.
func (c *Canvas) Status() Status {
	c.mu.Lock()
	st, shapes := c.state, c.shapes
	c.mu.Unlock()

	kind, _ := c.gestures.Active()
	return Status{
		Mode:        st.Mode,
		Breadcrumb:  st.Breadcrumb(),
		BackVisible: st.BackVisible(),
		Scale:       c.vp.Scale(),
		Size:        c.vp.Size(),
		Selected:    c.store.SelectedID(),
		Shapes:      len(shapes),
		Gesture:     kind.String(),
		Ready:       c.host.Ready(),
	}
}

// =============================================================================
// Events
// =============================================================================

// Subscribe registers fn and returns a function that removes it. Listeners
// run on the goroutine that caused the event.
func (c *Canvas) Subscribe(fn Listener) (unsubscribe func()) {
	c.lmu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.lmu.Lock()
			delete(c.listeners, id)
			c.lmu.Unlock()
		})
	}
}

func (c *Canvas) emit(ev Event) {
	ev.Status = c.Status()
	c.lmu.Lock()
	ls := make([]Listener, 0, len(c.listeners))
	for i := 0; i < c.nextID; i++ {
		if fn, ok := c.listeners[i]; ok {
			ls = append(ls, fn)
		}
	}
	c.lmu.Unlock()
	for _, fn := range ls {
		fn(ev)
	}
}

func (c *Canvas) onStore(store.Event) { c.Refresh() }

// =============================================================================
// Gesture handlers
// =============================================================================

func (c *Canvas) node(id string) (*layout.Node, []*layout.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return layout.Find(c.nodes, id), c.nodes
}

func (c *Canvas) onSelect(id string) {
	n, _ := c.node(id)
	if n == nil {
		c.logger.Debug("click on node no longer on stage", "id", id)
		return
	}
	c.selectNode(n)
}

func (c *Canvas) selectNode(n *layout.Node) {
	entered := c.nav.Enter(n)
	if err := c.store.SetSelectedItem(n.ID); err != nil {
		c.logger.Warn("select failed", "id", n.ID, "err", err)
	}
	if entered {
		c.Refresh()
	}
	c.emit(Event{Kind: EventSelect, NodeID: n.ID})
}

// onDrill jumps to plant mode. A double click on a region does nothing;
// on other nodes with no drill target it acts as a single click.
func (c *Canvas) onDrill(id string) {
	n, nodes := c.node(id)
	if n == nil {
		c.logger.Debug("double click on node no longer on stage", "id", id)
		return
	}
	if c.drillInto(n, nodes) {
		return
	}
	if n.Type == layout.TypeRegion {
		c.logger.Debug("double click on region ignored", "id", id)
		return
	}
	c.selectNode(n)
}

func (c *Canvas) drillInto(n *layout.Node, nodes []*layout.Node) bool {
	if !c.nav.DrillInto(n, nodes) {
		return false
	}
	if err := c.store.SetSelectedItem(n.ID); err != nil {
		c.logger.Warn("select failed", "id", n.ID, "err", err)
	}
	c.Refresh()
	c.emit(Event{Kind: EventDrill, NodeID: n.ID})
	return true
}

func (c *Canvas) onPreview(id string, r geom.Rect) {
	c.mu.Lock()
	if s := scene.Find(c.shapes, id); s != nil {
		s.MoveTo(r.X, r.Y)
		if s.Rect.Width != r.Width || s.Rect.Height != r.Height {
			s.Resize(r.Width, r.Height)
		}
		c.presentLocked()
	}
	c.mu.Unlock()
}

func (c *Canvas) onCommit(u gesture.Update) {
	if err := c.store.ApplyGeometryUpdate(u.NodeID, u.Patch); err != nil {
		if errors.IsNotFound(err) {
			c.logger.Debug("node removed during gesture", "id", u.NodeID)
		} else {
			c.logger.Warn("geometry update rejected", "id", u.NodeID, "err", err)
		}
		// Drop the preview.
		c.Refresh()
	}
}
