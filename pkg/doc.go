// Package pkg provides the core libraries for the assetcanvas hierarchy
// canvas.
//
// # Overview
//
// assetcanvas draws an industrial asset hierarchy (enterprise, region,
// plant, area, location, equipment) as nested rectangles on a zoomable
// canvas. Clicking selects a node, double clicking drills one level deeper
// and the selected rectangle can be moved or resized with snapping. The pkg
// directory is organized into four areas:
//
//  1. Domain: [hierarchy], [geom] and [errors]
//  2. Canvas: [layout], [drill], [scene], [gesture], [viewport], [canvas]
//  3. Output: [render/sink], [render/dot], [render]
//  4. Infrastructure: [store], [storage], [cache], [io], [config],
//     [observability], [buildinfo]
//
// # Architecture
//
// The data flow for one frame:
//
//	store.Store (enterprise + selection)
//	         ↓
//	    [drill] package (current mode picks the visible nodes)
//	         ↓
//	    [layout] package (rectangles, grids, colors)
//	         ↓
//	    [scene] package (shapes, labels, handles)
//	         ↓
//	    [render/sink] (SVG, JSON or MessagePack frame)
//
// Pointer input flows the other way: [scene.HitTest] finds the shape under
// the pointer, [gesture] turns presses into clicks, double clicks, moves
// and resizes, and committed edits go back to the store as geometry
// patches.
//
// # Quick Start
//
// Mount a headless canvas on the sample enterprise and draw a frame:
//
//	st := store.New(hierarchy.Sample())
//	size := geom.Size{Width: 1200, Height: 800}
//	cv := canvas.New(st, canvas.WithSize(size))
//	if err := cv.Mount(ctx, sink.NewContainer(size)); err != nil {
//	    return err
//	}
//	defer cv.Unmount()
//
//	cv.Open("reg-emea")
//	svg := sink.RenderSVG(cv.Frame())
//
// # Main Packages
//
// [hierarchy] - The enterprise tree, its immutable edit operations and the
// built-in sample data.
//
// [layout] - Default geometry for the overview, and the region and plant
// grids used while drilled in.
//
// [drill] - Navigation state: overview, region mode and plant mode, with
// one-level back navigation.
//
// [gesture] - Click and double-click disambiguation, drag-to-move and
// handle resize with grid snapping.
//
// [canvas] - Ties the store, navigation, gestures and viewport together
// behind a pointer-event API.
//
// [storage] - Persistence backends: file, Redis, MongoDB and SQLite.
//
// [cache] - Rendered diagram cache for Graphviz output.
//
// # Testing
//
//	go test ./pkg/...
//	go test ./pkg/canvas/...
//
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/assetcanvas/pkg/hierarchy
// [geom]: https://pkg.go.dev/github.com/matzehuels/assetcanvas/pkg/geom
// [errors]: https://pkg.go.dev/github.com/matzehuels/assetcanvas/pkg/errors
// [layout]: https://pkg.go.dev/github.com/matzehuels/assetcanvas/pkg/layout
// [drill]: https://pkg.go.dev/github.com/matzehuels/assetcanvas/pkg/drill
// [scene]: https://pkg.go.dev/github.com/matzehuels/assetcanvas/pkg/scene
// [scene.HitTest]: https://pkg.go.dev/github.com/matzehuels/assetcanvas/pkg/scene#HitTest
// [gesture]: https://pkg.go.dev/github.com/matzehuels/assetcanvas/pkg/gesture
// [viewport]: https://pkg.go.dev/github.com/matzehuels/assetcanvas/pkg/viewport
// [canvas]: https://pkg.go.dev/github.com/matzehuels/assetcanvas/pkg/canvas
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/assetcanvas/pkg/render/sink
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/assetcanvas/pkg/render/dot
// [render]: https://pkg.go.dev/github.com/matzehuels/assetcanvas/pkg/render
// [store]: https://pkg.go.dev/github.com/matzehuels/assetcanvas/pkg/store
// [storage]: https://pkg.go.dev/github.com/matzehuels/assetcanvas/pkg/storage
// [cache]: https://pkg.go.dev/github.com/matzehuels/assetcanvas/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/assetcanvas/pkg/io
// [config]: https://pkg.go.dev/github.com/matzehuels/assetcanvas/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/assetcanvas/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/assetcanvas/pkg/buildinfo
package pkg
