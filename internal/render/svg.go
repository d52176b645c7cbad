package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"
)

const svgStyle = `
    text { font-family: "DejaVu Sans", "Segoe UI Symbol", sans-serif; }
    .glyph { font-size: %.1fpx; }
    .label { font-size: %.1fpx; }
    .bold { font-weight: bold; }`

// RenderSVG renders composited layers as an SVG document, one group per
// layer in paint order.
func RenderSVG(g Geometry, layers []Composited) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		g.Size, g.Size, g.Size, g.Size)
	fmt.Fprintf(&buf, "  <style>"+svgStyle+"\n  </style>\n", g.Size*0.035, g.Size*0.022)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", CanvasBackground)

	for _, l := range layers {
		fmt.Fprintf(&buf, `  <g id="layer-%s" opacity="%.2f">`+"\n", html.EscapeString(l.Layer), l.Opacity)
		for _, m := range l.Output.Marks {
			writeMark(&buf, m)
		}
		buf.WriteString("  </g>\n")
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// WriteSVG writes RenderSVG output to w.
func WriteSVG(w io.Writer, g Geometry, layers []Composited) error {
	_, err := w.Write(RenderSVG(g, layers))
	return err
}

func writeMark(buf *bytes.Buffer, m Mark) {
	if len(m.Points) == 0 {
		return
	}
	attrs := markAttrs(m)

	switch m.Shape {
	case ShapeGlyph:
		p := m.Points[0]
		fmt.Fprintf(buf, `    <text class="glyph%s" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" fill="%s"%s>%s</text>`+"\n",
			boldClass(m), p.X, p.Y, m.Color, attrs, html.EscapeString(m.Text))
	case ShapeText:
		p := m.Points[0]
		fmt.Fprintf(buf, `    <text class="label%s" x="%.2f" y="%.2f" dominant-baseline="central" fill="%s"%s>%s</text>`+"\n",
			boldClass(m), p.X, p.Y, m.Color, attrs, html.EscapeString(m.Text))
	case ShapeLine:
		if len(m.Points) < 2 {
			return
		}
		a, b := m.Points[0], m.Points[1]
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%s"%s/>`+"\n",
			a.X, a.Y, b.X, b.Y, m.Color, strokeWidth(m), attrs)
	case ShapePolyline:
		fmt.Fprintf(buf, `    <polyline points="%s" fill="none" stroke="%s" stroke-width="%s"%s/>`+"\n",
			pointList(m.Points), m.Color, strokeWidth(m), attrs)
	case ShapeArc:
		d := m.Path
		if d == "" {
			d = "M " + strings.ReplaceAll(pointList(m.Points), " ", " L ")
		}
		fmt.Fprintf(buf, `    <path d="%s" fill="none" stroke="%s" stroke-width="%s"%s/>`+"\n",
			d, m.Color, strokeWidth(m), attrs)
	case ShapeCircle:
		p := m.Points[0]
		fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="%s"%s/>`+"\n",
			p.X, p.Y, m.Radius, m.Color, strokeWidth(m), attrs)
	}
}

func markAttrs(m Mark) string {
	if m.ElementID == "" {
		return ""
	}
	return fmt.Sprintf(` data-element="%s"`, html.EscapeString(m.ElementID))
}

func boldClass(m Mark) string {
	if m.Bold {
		return " bold"
	}
	return ""
}

func strokeWidth(m Mark) string {
	if m.Bold {
		return "2"
	}
	return "1"
}

func pointList(pts []Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}
