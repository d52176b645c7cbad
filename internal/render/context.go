// Package render holds the per-pass render context handed to layer draw
// functions, the primitives they return, and the sinks that paint them.
package render

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/litescript/ls-natal/internal/chart"
)

// Point is a position in wheel space. The wheel occupies a Size x Size
// square with the origin at the top-left corner and Y growing downward.
type Point struct {
	X, Y float64
}

// Geometry describes the rings of the chart wheel.
type Geometry struct {
	Size         float64
	Center       Point
	OuterRadius  float64 // outer edge of the zodiac ring
	InnerRadius  float64 // inner edge of the zodiac ring
	PlanetRadius float64 // ring where bodies are placed
	HouseRadius  float64 // inner house circle; aspect lines end here
}

// NewGeometry derives ring radii proportionally from the wheel size.
func NewGeometry(size float64) Geometry {
	return Geometry{
		Size:         size,
		Center:       Point{X: size / 2, Y: size / 2},
		OuterRadius:  size * 0.42,
		InnerRadius:  size * 0.35,
		PlanetRadius: size * 0.29,
		HouseRadius:  size * 0.19,
	}
}

// Interaction is a snapshot of what the user is pointing at.
// Empty strings mean nothing is hovered or selected.
type Interaction struct {
	Hovered     string
	Selected    string
	Highlighted []string // ordered, no duplicates
}

// IsHighlighted reports whether id is in the highlighted set.
func (i Interaction) IsHighlighted(id string) bool {
	return slices.Contains(i.Highlighted, id)
}

// Active reports whether any interaction state is set.
func (i Interaction) Active() bool {
	return i.Hovered != "" || i.Selected != "" || len(i.Highlighted) > 0
}

// Context is built fresh for every render pass. Draw functions read it and
// must not retain it.
type Context struct {
	Chart       *chart.Data
	Geometry    Geometry
	Interaction Interaction
}

// ascendant returns the rotation anchor, 0 when no chart is loaded.
func (c Context) ascendant() float64 {
	if c.Chart == nil {
		return 0
	}
	return c.Chart.Angles.Ascendant
}

// Project converts an ecliptic longitude and radius to wheel space.
// The ascendant is placed at 9 o'clock and longitude increases
// counter-clockwise, the usual chart orientation.
func (c Context) Project(lon, radius float64) Point {
	theta := (180 + lon - c.ascendant()) * math.Pi / 180
	return Point{
		X: c.Geometry.Center.X + radius*math.Cos(theta),
		Y: c.Geometry.Center.Y - radius*math.Sin(theta),
	}
}

// ArcPoints samples an arc from startLon to endLon (counter-clockwise)
// at the given radius. At least two points are returned.
func (c Context) ArcPoints(startLon, endLon, radius float64, steps int) []Point {
	if steps < 1 {
		steps = 1
	}
	span := chart.Normalize(endLon - startLon)
	if span == 0 {
		span = 360
	}
	pts := make([]Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		pts = append(pts, c.Project(startLon+span*float64(i)/float64(steps), radius))
	}
	return pts
}

// ArcPath builds an SVG path for the arc from startLon to endLon.
func (c Context) ArcPath(startLon, endLon, radius float64) string {
	span := chart.Normalize(endLon - startLon)
	if span == 0 {
		// A full circle cannot be one arc command; split it in two.
		mid := c.Project(startLon+180, radius)
		start := c.Project(startLon, radius)
		return fmt.Sprintf("M %.2f %.2f A %.2f %.2f 0 1 0 %.2f %.2f A %.2f %.2f 0 1 0 %.2f %.2f",
			start.X, start.Y, radius, radius, mid.X, mid.Y, radius, radius, start.X, start.Y)
	}

	start := c.Project(startLon, radius)
	end := c.Project(endLon, radius)
	large := 0
	if span > 180 {
		large = 1
	}
	// Counter-clockwise on screen is sweep-flag 0 with Y pointing down.
	var b strings.Builder
	fmt.Fprintf(&b, "M %.2f %.2f A %.2f %.2f 0 %d 0 %.2f %.2f",
		start.X, start.Y, radius, radius, large, end.X, end.Y)
	return b.String()
}

// Element palette.
const (
	ColorFire  = "#e8684a"
	ColorEarth = "#8fb573"
	ColorAir   = "#e8c547"
	ColorWater = "#5b9bd5"
)

// ElementColor maps a classical element to its display colour.
func (c Context) ElementColor(e chart.Element) string {
	switch e {
	case chart.Fire:
		return ColorFire
	case chart.Earth:
		return ColorEarth
	case chart.Air:
		return ColorAir
	case chart.Water:
		return ColorWater
	default:
		return "#bbbbbb"
	}
}
