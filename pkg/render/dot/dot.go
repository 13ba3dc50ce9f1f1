package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/assetcanvas/pkg/cache"
	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
	"github.com/matzehuels/assetcanvas/pkg/layout"
)

// Options configures tree diagram generation.
type Options struct {
	// Depth is the deepest kind included. Zero means equipment.
	Depth hierarchy.Kind

	// Detailed adds equipment type and attribute values to labels.
	Detailed bool
}

// ToDOT converts an enterprise to Graphviz DOT source.
func ToDOT(e *hierarchy.Enterprise, opts Options) string {
	depth := opts.Depth
	if depth == 0 {
		depth = hierarchy.KindEquipment
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Arial\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowhead=none, color=\"#666666\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	if e != nil {
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=\"#333333\", fontcolor=white];\n", e.ID, e.Name)
	}

	var edges []string
	hierarchy.Walk(e, func(n hierarchy.Node, path []hierarchy.Node) bool {
		if n.Kind() > depth {
			return false
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.NodeID(), strings.Join(fmtAttrs(n, opts.Detailed), ", "))
		parent := e.ID
		if len(path) > 0 {
			parent = path[len(path)-1].NodeID()
		}
		edges = append(edges, fmt.Sprintf("  %q -> %q;\n", parent, n.NodeID()))
		return true
	})

	buf.WriteString("\n")
	for _, line := range edges {
		buf.WriteString(line)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n hierarchy.Node, detailed bool) string {
	eq, ok := n.(hierarchy.Equipment)
	if !ok || !detailed {
		return n.NodeName()
	}
	parts := []string{eq.Name}
	if eq.Type != "" {
		parts = append(parts, "type: "+eq.Type)
	}
	for _, a := range eq.Attributes {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Definition.Name, a.Value))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n hierarchy.Node, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	switch v := n.(type) {
	case hierarchy.Region:
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", layout.RegionColor(v.Code).Hex()), "fontcolor=white")
	case hierarchy.Equipment:
		attrs = append(attrs, "fillcolor=white", "style=\"rounded,filled,dashed\"")
	default:
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", layout.KindColor(n.Kind()).Hex()))
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderSVGCached is RenderSVG backed by c. It reports whether the result
// came from the cache. Cache failures fall through to rendering.
func RenderSVGCached(ctx context.Context, c cache.Cache, dot string) ([]byte, bool, error) {
	if c == nil {
		svg, err := RenderSVG(ctx, dot)
		return svg, false, err
	}
	key := cache.DiagramKey(dot, "svg")
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, false, err
	}
	_ = c.Set(ctx, key, svg, cache.DiagramTTL)
	return svg, false, nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// viewBox so the diagram scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
