// Package drill tracks which hierarchy level the canvas shows.
//
// The canvas is always in one of three modes. In [Overview] every region is
// drawn; in [RegionMode] the plants of one zoomed region fill the stage; in
// [PlantMode] the areas of one zoomed plant do. A [Navigator] moves between
// them in response to clicks, double clicks and the back affordance, and
// rebuilds the layout input for the current mode with [Navigator.Derive].
//
// Back navigation goes exactly one level up. There is no history stack.
package drill

import (
	"sync"

	"github.com/matzehuels/assetcanvas/pkg/geom"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
	"github.com/matzehuels/assetcanvas/pkg/layout"
)

// Mode is the drill level being displayed.
type Mode string

const (
	Overview   Mode = "overview"
	RegionMode Mode = "region"
	PlantMode  Mode = "plant"
)

// State is a snapshot of the navigator.
//
// Mode == RegionMode implies Region != nil; Mode == PlantMode implies both
// Region and Plant are set.
type State struct {
	Mode   Mode
	Region *layout.Node
	Plant  *layout.Node
}

// BackVisible reports whether a back affordance should be shown.
func (s State) BackVisible() bool { return s.Mode != Overview }

// Breadcrumb returns the names of the zoomed ancestors, outermost first.
func (s State) Breadcrumb() []string {
	var out []string
	if s.Region != nil && s.Mode != Overview {
		out = append(out, s.Region.Name)
	}
	if s.Plant != nil && s.Mode == PlantMode {
		out = append(out, s.Plant.Name)
	}
	return out
}

// Navigator owns the drill state. It is safe for concurrent use.
type Navigator struct {
	mu    sync.Mutex
	state State
}

// NewNavigator returns a navigator in overview mode.
func NewNavigator() *Navigator {
	return &Navigator{state: State{Mode: Overview}}
}

// State returns the current drill state.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// BackVisible reports whether the current mode is not the overview.
func (n *Navigator) BackVisible() bool { return n.State().BackVisible() }

// Enter handles a single click. A region clicked in the overview becomes
// the zoomed region; a plant clicked in region mode becomes the zoomed plant.
// Any other click leaves the state alone. It reports whether the mode changed.
func (n *Navigator) Enter(node *layout.Node) bool {
	if node == nil {
		return false
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	switch {
	case n.state.Mode == Overview && node.Type == layout.TypeRegion:
		n.state = State{Mode: RegionMode, Region: node}
		return true
	case n.state.Mode == RegionMode && node.Type == layout.TypePlant:
		n.state.Mode = PlantMode
		n.state.Plant = node
		return true
	}
	return false
}

// DrillInto handles a double click, jumping straight to plant mode.
//
// A plant double-clicked in the overview zooms to its owning region and then
// the plant. An area double-clicked in the overview zooms to both its region
// and plant; from region mode, to its plant. Missing ancestors are looked up
// by scanning current, the nodes presently on the stage. When an ancestor
// cannot be found the state is left unchanged and false is returned.
func (n *Navigator) DrillInto(node *layout.Node, current []*layout.Node) bool {
	if node == nil {
		return false
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	switch node.Type {
	case layout.TypePlant:
		switch n.state.Mode {
		case Overview:
			region := layout.Parent(current, node.ID)
			if region == nil || region.Type != layout.TypeRegion {
				return false
			}
			n.state = State{Mode: PlantMode, Region: region, Plant: node}
			return true
		case RegionMode:
			n.state.Mode = PlantMode
			n.state.Plant = node
			return true
		}

	case layout.TypeArea:
		switch n.state.Mode {
		case Overview:
			plant := layout.Parent(current, node.ID)
			if plant == nil || plant.Type != layout.TypePlant {
				return false
			}
			region := layout.Parent(current, plant.ID)
			if region == nil || region.Type != layout.TypeRegion {
				return false
			}
			n.state = State{Mode: PlantMode, Region: region, Plant: plant}
			return true
		case RegionMode:
			plant := layout.Parent(current, node.ID)
			if plant == nil || plant.Type != layout.TypePlant {
				return false
			}
			n.state.Mode = PlantMode
			n.state.Plant = plant
			return true
		}
	}
	return false
}

// Back moves one level up: plant mode to region mode (keeping the zoomed
// region), region mode to the overview. It reports whether anything changed.
func (n *Navigator) Back() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.state.Mode {
	case PlantMode:
		n.state.Mode = RegionMode
		n.state.Plant = nil
		return true
	case RegionMode:
		n.state = State{Mode: Overview}
		return true
	}
	return false
}

// Reset returns to the overview.
func (n *Navigator) Reset() {
	n.mu.Lock()
	n.state = State{Mode: Overview}
	n.mu.Unlock()
}

// Derive lays out e for the current mode.
//
// The zoomed ancestors are re-resolved by id in e, so edits made since the
// zoom are reflected and a stale snapshot is never laid out. If the zoomed
// region no longer exists the navigator resets to the overview; if only the
// zoomed plant is gone it falls back to region mode.
func (n *Navigator) Derive(e *hierarchy.Enterprise, viewport geom.Size) ([]*layout.Node, State) {
	n.mu.Lock()
	st := n.reconcile(e)
	n.state = st
	n.mu.Unlock()

	switch st.Mode {
	case RegionMode:
		return layout.RegionGrid(st.Region.Data.(hierarchy.Region), viewport), st
	case PlantMode:
		return layout.PlantGrid(st.Plant.Data.(hierarchy.Plant), viewport), st
	}
	return layout.Overview(e), st
}

// reconcile returns the state with zoomed nodes refreshed from e.
func (n *Navigator) reconcile(e *hierarchy.Enterprise) State {
	st := n.state
	if st.Mode == Overview {
		return st
	}

	region, ok := e.Region(st.Region.ID)
	if !ok {
		return State{Mode: Overview}
	}
	st.Region = refreshed(st.Region, region)

	if st.Mode == PlantMode {
		src, path, found := hierarchy.Find(e, st.Plant.ID)
		plant, isPlant := src.(hierarchy.Plant)
		if !found || !isPlant || len(path) == 0 || path[0].NodeID() != region.ID {
			st.Mode = RegionMode
			st.Plant = nil
			return st
		}
		st.Plant = refreshed(st.Plant, plant)
	}
	return st
}

func refreshed(n *layout.Node, src hierarchy.Node) *layout.Node {
	c := *n
	c.Name = src.NodeName()
	c.Data = src
	return &c
}
