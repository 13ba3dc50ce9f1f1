// Package dot renders an enterprise hierarchy as a Graphviz tree diagram.
//
// # Overview
//
// Where the canvas shows one drill level at a time, the DOT diagram shows
// the whole tree at once: regions, plants, areas, locations and equipment as
// rounded boxes connected top to bottom. Region boxes use their region
// color; the other levels use the canvas palette.
//
// # Usage
//
//	src := dot.ToDOT(e, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src)
//
// [RenderSVGCached] keys rendered SVG by a hash of the DOT source so an
// unchanged hierarchy is laid out once.
//
// # Options
//
//   - Depth: Deepest kind to include (default: equipment)
//   - Detailed: Include equipment type and attributes in labels
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. No external Graphviz installation is needed.
package dot
