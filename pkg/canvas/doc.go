// Package canvas composes layout, scene, gestures, viewport and drill
// navigation into one mounted view of the enterprise.
//
// # Overview
//
// A [Canvas] reads the enterprise from a [Store] and keeps a derived stage:
// the layout nodes for the current drill mode and the shapes built from
// them. Whenever the store reports a change, or navigation moves, the stage
// is derived again and presented to the render surface.
//
// Input arrives in screen pixels through [Canvas.PointerDown],
// [Canvas.PointerMove], [Canvas.PointerUp] and [Canvas.Wheel]. Presses are
// hit-tested against the stage and routed to the gesture controller:
//
//   - a single click on a shape selects it and, for a region in the
//     overview or a plant in region mode, zooms into it
//   - a double click drills straight into plant mode where possible
//   - dragging the move or resize handle of the selected shape previews the
//     new geometry and commits it to the store on release
//
// The canvas never edits the hierarchy. Committed moves and resizes become
// [Store.ApplyGeometryUpdate] calls, and the resulting store event rebuilds
// the stage.
//
// # Lifecycle
//
//	c := canvas.New(st, canvas.WithLogger(logger))
//	if err := c.Mount(ctx, sink.NewContainer(size)); err != nil {
//	    return err
//	}
//	defer c.Unmount()
//
// # Locking
//
// The canvas lock is always taken before the store's. Gesture handlers and
// canvas listeners run without the canvas lock held.
package canvas
