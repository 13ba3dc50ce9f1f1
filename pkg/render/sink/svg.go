package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/assetcanvas/pkg/geom"
	"github.com/matzehuels/assetcanvas/pkg/scene"
)

// DefaultBackground is the stage background color.
const DefaultBackground = "#f5f5f5"

// Placeholder is drawn when a frame has no shapes.
const Placeholder = "No equipment data available.\nAdd regions to get started."

// Frame is one renderable state of the canvas.
type Frame struct {
	Shapes      []*scene.Shape
	Scale       float64
	Size        geom.Size
	Placeholder string
}

// Empty reports whether the frame has nothing to draw.
func (f Frame) Empty() bool { return len(f.Shapes) == 0 }

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	ids        bool
}

// WithBackground overrides the stage background color.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithIDs adds id and data-* attributes to every shape group.
func WithIDs() SVGOption { return func(r *svgRenderer) { r.ids = true } }

// RenderSVG draws f as a standalone SVG document.
func RenderSVG(f Frame, opts ...SVGOption) []byte {
	r := svgRenderer{background: DefaultBackground}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := f.Size.Width, f.Size.Height
	if w <= 0 || h <= 0 {
		w, h = 800, 600
	}
	scale := f.Scale
	if scale <= 0 {
		scale = 1
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)

	if f.Empty() {
		msg := f.Placeholder
		if msg == "" {
			msg = Placeholder
		}
		renderPlaceholder(&buf, msg, w, h)
	} else {
		fmt.Fprintf(&buf, `  <g transform="scale(%s)">`+"\n", num(scale))
		for _, s := range f.Shapes {
			r.renderShape(&buf, s, 2)
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderShape(buf *bytes.Buffer, s *scene.Shape, depth int) {
	pad := strings.Repeat("  ", depth)
	fmt.Fprintf(buf, `%s<g transform="translate(%s %s)"`, pad, num(s.Rect.X), num(s.Rect.Y))
	if r.ids {
		fmt.Fprintf(buf, ` id="shape-%s" data-type="%s"`, EscapeXML(s.ID), s.Type)
		if s.Interactive {
			buf.WriteString(` data-target="true"`)
		}
	}
	buf.WriteString(">\n")

	fmt.Fprintf(buf, `%s  <rect width="%s" height="%s" rx="%s" fill="%s" fill-opacity="%s" stroke="%s" stroke-width="%d"/>`+"\n",
		pad, num(s.Rect.Width), num(s.Rect.Height), num(s.Radius),
		s.Fill.Hex(), num(scene.FillAlpha), scene.StrokeColor, scene.StrokeWidth)

	renderLabel(buf, pad+"  ", s.Label)

	for _, c := range s.Children {
		r.renderShape(buf, c, depth+1)
	}

	for _, h := range s.Handles {
		fmt.Fprintf(buf, `%s  <rect class="handle handle-%s" x="%s" y="%s" width="%s" height="%s" fill="%s" fill-opacity="%s"/>`+"\n",
			pad, h.Part, num(h.Rect.X), num(h.Rect.Y), num(h.Rect.Width), num(h.Rect.Height),
			scene.HandleColor, num(scene.HandleAlpha))
	}

	fmt.Fprintf(buf, "%s</g>\n", pad)
}

func renderLabel(buf *bytes.Buffer, pad string, l scene.Label) {
	if len(l.Lines) == 0 {
		return
	}
	lineHeight := l.FontSize * 1.2
	top := l.Y - lineHeight*float64(len(l.Lines)-1)/2
	fmt.Fprintf(buf, `%s<text x="%s" text-anchor="middle" dominant-baseline="middle" font-family="Arial, sans-serif" font-size="%s" fill="%s">`,
		pad, num(l.X), num(l.FontSize), l.Color)
	for i, line := range l.Lines {
		fmt.Fprintf(buf, `<tspan x="%s" y="%s">%s</tspan>`, num(l.X), num(top+float64(i)*lineHeight), EscapeXML(line))
	}
	buf.WriteString("</text>\n")
}

func renderPlaceholder(buf *bytes.Buffer, msg string, w, h float64) {
	lines := strings.Split(msg, "\n")
	const lineHeight = 24
	top := h/2 - lineHeight*float64(len(lines)-1)/2
	fmt.Fprintf(buf, `  <text class="placeholder" x="%s" text-anchor="middle" dominant-baseline="middle" font-family="Arial, sans-serif" font-size="16" fill="#666666">`, num(w/2))
	for i, line := range lines {
		fmt.Fprintf(buf, `<tspan x="%s" y="%s">%s</tspan>`, num(w/2), num(top+float64(i)*lineHeight), EscapeXML(line))
	}
	buf.WriteString("</text>\n")
}

// num formats a coordinate compactly: integers without decimals, others
// with up to two.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
