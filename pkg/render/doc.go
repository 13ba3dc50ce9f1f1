// Package render provides output formats for the asset canvas.
//
// # Overview
//
// The canvas itself is headless: the scene package produces shape trees and
// the subpackages here turn them into something a person can look at.
//
//   - [sink]: the live canvas as SVG or flat JSON, plus the in-memory render
//     surface the viewport host mounts
//   - [dot]: the whole hierarchy as a Graphviz tree diagram
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg := sink.RenderSVG(frame)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [sink]: github.com/matzehuels/assetcanvas/pkg/render/sink
// [dot]: github.com/matzehuels/assetcanvas/pkg/render/dot
package render
