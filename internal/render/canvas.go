package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	// Background colour used for empty cells and opacity blending.
	CanvasBackground = "#1c1c1c"

	defaultStroke = '·'
)

// Canvas rasterises composited layers onto a grid of terminal cells.
// Terminal cells are about twice as tall as wide, so wheel X is stretched
// by two to keep circles round.
type Canvas struct {
	width  int
	height int

	cells  [][]rune
	colors [][]string
	bold   [][]bool

	unit    float64 // cells per wheel unit, vertically
	offsetX float64
	offsetY float64
}

// NewCanvas creates a blank canvas that fits a wheel of geometry g.
func NewCanvas(width, height int, g Geometry) *Canvas {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	c := &Canvas{width: width, height: height}
	c.cells = make([][]rune, height)
	c.colors = make([][]string, height)
	c.bold = make([][]bool, height)
	for y := 0; y < height; y++ {
		c.cells[y] = make([]rune, width)
		c.colors[y] = make([]string, width)
		c.bold[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			c.cells[y][x] = ' '
			c.colors[y][x] = CanvasBackground
		}
	}

	size := g.Size
	if size <= 0 {
		size = 1
	}
	c.unit = math.Min(float64(width)/2, float64(height)) / size
	c.offsetX = (float64(width) - size*c.unit*2) / 2
	c.offsetY = (float64(height) - size*c.unit) / 2
	return c
}

// Width returns the canvas width in cells.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in cells.
func (c *Canvas) Height() int { return c.height }

// cell maps a wheel point to a terminal cell.
func (c *Canvas) cell(p Point) (int, int) {
	x := int(math.Round(c.offsetX + p.X*c.unit*2))
	y := int(math.Round(c.offsetY + p.Y*c.unit))
	return x, y
}

// Paint draws layers in the given order; later layers overwrite earlier ones.
func (c *Canvas) Paint(layers []Composited) {
	for _, l := range layers {
		if l.Opacity <= 0 {
			continue
		}
		for _, m := range l.Output.Marks {
			c.paintMark(m, l.Opacity)
		}
	}
}

func (c *Canvas) paintMark(m Mark, opacity float64) {
	if len(m.Points) == 0 {
		return
	}
	color := blend(m.Color, opacity)
	stroke := m.Stroke
	if stroke == 0 {
		stroke = defaultStroke
	}

	switch m.Shape {
	case ShapeGlyph:
		runes := []rune(m.Text)
		x, y := c.cell(m.Points[0])
		c.putRunes(x-len(runes)/2, y, runes, color, m.Bold)
	case ShapeText:
		x, y := c.cell(m.Points[0])
		c.putRunes(x, y, []rune(m.Text), color, m.Bold)
	case ShapeLine:
		if len(m.Points) >= 2 {
			c.line(m.Points[0], m.Points[1], stroke, color, m.Bold)
		}
	case ShapePolyline, ShapeArc:
		for i := 1; i < len(m.Points); i++ {
			c.line(m.Points[i-1], m.Points[i], stroke, color, m.Bold)
		}
	case ShapeCircle:
		// Sample densely enough that neighbouring samples touch.
		steps := int(math.Max(24, m.Radius*c.unit*2*math.Pi*2))
		center := m.Points[0]
		for i := 0; i < steps; i++ {
			theta := 2 * math.Pi * float64(i) / float64(steps)
			p := Point{X: center.X + m.Radius*math.Cos(theta), Y: center.Y + m.Radius*math.Sin(theta)}
			x, y := c.cell(p)
			c.set(x, y, stroke, color, m.Bold)
		}
	}
}

func (c *Canvas) putRunes(x, y int, runes []rune, color string, bold bool) {
	for i, r := range runes {
		c.set(x+i, y, r, color, bold)
	}
}

// line draws a Bresenham segment between two wheel points.
func (c *Canvas) line(a, b Point, stroke rune, color string, bold bool) {
	x0, y0 := c.cell(a)
	x1, y1 := c.cell(b)

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		c.set(x0, y0, stroke, color, bold)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) set(x, y int, r rune, color string, bold bool) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y][x] = r
	c.colors[y][x] = color
	c.bold[y][x] = bold
}

// At returns the rune and colour at a cell, for tests and hit testing.
func (c *Canvas) At(x, y int) (rune, string) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return ' ', ""
	}
	return c.cells[y][x], c.colors[y][x]
}

// String renders the canvas with lipgloss styling. Runs of cells sharing a
// style are rendered together.
func (c *Canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		start := 0
		for x := 1; x <= c.width; x++ {
			if x < c.width && c.colors[y][x] == c.colors[y][start] && c.bold[y][x] == c.bold[y][start] {
				continue
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.colors[y][start])).Bold(c.bold[y][start])
			b.WriteString(style.Render(string(c.cells[y][start:x])))
			start = x
		}
		if y < c.height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Plain renders the canvas without colour, for pipes and tests.
func (c *Canvas) Plain() string {
	lines := make([]string, c.height)
	for y := 0; y < c.height; y++ {
		lines[y] = strings.TrimRight(string(c.cells[y]), " ")
	}
	return strings.Join(lines, "\n")
}

// blend mixes a colour toward the background by (1 - opacity).
func blend(hex string, opacity float64) string {
	if opacity >= 1 {
		return hex
	}
	fg, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	bg, _ := colorful.Hex(CanvasBackground)
	return fg.BlendRgb(bg, 1-opacity).Hex()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
