// Package sink renders canvas frames to output formats.
//
// # Overview
//
// A [Frame] is everything needed to draw the canvas once: the shape trees
// built by the scene package, the viewport scale and the surface size. When
// there is nothing to draw the frame carries a placeholder message instead.
//
// This package provides:
//
//   - [RenderSVG]: a standalone SVG document with the whole scene nested
//     inside a single scale(s) group, so child shapes keep parent-local
//     coordinates exactly as the layout produced them.
//   - [RenderJSON] and [RenderMsgpack]: the [Flatten]ed frame, a flat list
//     of shapes in stage space for clients that draw the canvas themselves.
//   - [Surface]: an in-memory render surface that keeps the latest frame.
//
// Basic usage:
//
//	svg := sink.RenderSVG(frame, sink.WithBackground("#ffffff"))
//
// # SVG Options
//
//   - [WithBackground]: Stage background color (default #f5f5f5)
//   - [WithIDs]: Emit element ids and data attributes for client scripting
package sink
