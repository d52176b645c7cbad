package render

// Shape selects how a mark is painted.
type Shape int

const (
	ShapeGlyph    Shape = iota // single symbol centred on Points[0]
	ShapeText                  // text starting at Points[0]
	ShapeLine                  // segment Points[0] -> Points[1]
	ShapePolyline              // connected Points
	ShapeCircle                // circle at Points[0] with Radius
	ShapeArc                   // sampled arc in Points, SVG path in Path
)

// Mark is one drawing primitive produced by a layer.
type Mark struct {
	Shape     Shape
	Points    []Point
	Radius    float64
	Path      string
	Text      string
	Color     string // "#rrggbb"
	Stroke    rune   // terminal rune for strokes; '·' when zero
	Bold      bool
	ElementID string // interactive element this mark belongs to, if any
}

// Output is what a draw function returns for one pass.
type Output struct {
	Marks []Mark
}

// Add appends marks.
func (o *Output) Add(m ...Mark) {
	o.Marks = append(o.Marks, m...)
}

// Glyph appends a centred symbol.
func (o *Output) Glyph(p Point, text, color, id string) {
	o.Add(Mark{Shape: ShapeGlyph, Points: []Point{p}, Text: text, Color: color, ElementID: id})
}

// Text appends a left-anchored label.
func (o *Output) Text(p Point, text, color string) {
	o.Add(Mark{Shape: ShapeText, Points: []Point{p}, Text: text, Color: color})
}

// Line appends a segment.
func (o *Output) Line(a, b Point, color string, stroke rune) {
	o.Add(Mark{Shape: ShapeLine, Points: []Point{a, b}, Color: color, Stroke: stroke})
}

// Circle appends a circle outline.
func (o *Output) Circle(center Point, radius float64, color string, stroke rune) {
	o.Add(Mark{Shape: ShapeCircle, Points: []Point{center}, Radius: radius, Color: color, Stroke: stroke})
}

// Empty reports whether the output carries no marks.
func (o Output) Empty() bool {
	return len(o.Marks) == 0
}

// Composited is one layer's output ready for a sink, in paint order.
type Composited struct {
	Layer   string
	Opacity float64
	Output  Output
}
