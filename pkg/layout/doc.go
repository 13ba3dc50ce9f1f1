// Package layout derives renderable nodes from the enterprise hierarchy.
//
// # Overview
//
// A layout pass turns hierarchy data into a tree of [Node] values carrying
// concrete geometry, a display type and a fill color. Nodes are ephemeral:
// they are rebuilt on every change of enterprise data, drill mode or zoomed
// ancestor, and never written back directly.
//
// Three derivations exist, one per drill mode:
//
//   - [Overview]: every Region, with its Plants and their Areas nested inside.
//     Regions default to a column layout (x = 50 + i*400, y = 50, 350×500),
//     Plants stack inside their Region (x = 20, y = 50 + i*120, 310×100) and
//     Areas sit side by side inside their Plant (x = 10 + i*100, y = 40, 90×50).
//
//   - [RegionGrid]: the Plants of one Region in a square-ish grid sized against
//     the viewport, with each Plant's Areas in a 3-column sub-grid.
//
//   - [PlantGrid]: the Areas of one Plant in the same grid, with each Area's
//     Locations in a 2-column sub-grid.
//
// # Stored Geometry
//
// Stored geometry always wins over the computed default, field by field. A
// node with only a stored X keeps its default Y, Width and Height. Every
// coordinate is parent-local: a child's X and Y are offsets from its parent
// node's origin, so rendering never needs to translate coordinates beyond
// positioning each child inside its parent.
//
// # Degenerate Input
//
// A nil enterprise, a region without plants or a plant without areas yields
// an empty slice, never an error. Callers render a placeholder in that case.
package layout
