// Package wheel draws the chart wheel: one draw function per layer, and the
// compose pass that runs them in the layer manager's order.
package wheel

import (
	"cmp"
	"slices"
	"strings"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/layer"
	"github.com/litescript/ls-natal/internal/render"
)

// Colours shared by several layers.
const (
	colorRing      = "#6c6c8a"
	colorRingDim   = "#44445a"
	colorBody      = "#d0c8ff"
	colorSelected  = "#ffd75f"
	colorHovered   = "#ffffff"
	colorLabel     = "#a8a8a8"
	colorDimmed    = "#4e4e4e"
	colorAngle     = "#d7afff"
	colorStar      = "#e4e4e4"
	colorPart      = "#87d7af"
	colorNode      = "#afafd7"
	colorAsteroid  = "#87afaf"
	colorChiron    = "#d7af87"
	colorHarmony   = "#5fafff"
	colorTension   = "#ff5f5f"
	colorConjunct  = "#ffd75f"
	defaultStarMag = 1.5
)

// Painter holds the draw functions' shared configuration.
type Painter struct {
	stars   astro.StarCatalog
	starMag float64
}

// Option configures a Painter.
type Option func(*Painter)

// WithStarCatalog replaces the fixed star catalog.
func WithStarCatalog(c astro.StarCatalog) Option {
	return func(p *Painter) { p.stars = c }
}

// WithStarMagnitude sets the faintest magnitude drawn by the fixed star layer.
func WithStarMagnitude(mag float64) Option {
	return func(p *Painter) { p.starMag = mag }
}

// NewPainter creates a painter with the default star catalog.
func NewPainter(opts ...Option) *Painter {
	p := &Painter{
		stars:   astro.DefaultStarCatalog(),
		starMag: defaultStarMag,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Register assigns this painter's draw function to every layer it knows.
func (p *Painter) Register(m *layer.Manager) {
	m.SetDrawFunc(layer.Zodiac, p.drawZodiac)
	m.SetDrawFunc(layer.Houses, p.drawHouses)
	m.SetDrawFunc(layer.Planets, p.drawPlanets)
	m.SetDrawFunc(layer.Aspects, p.drawAspects)
	m.SetDrawFunc(layer.Degrees, p.drawDegrees)
	m.SetDrawFunc(layer.Labels, p.drawLabels)
	m.SetDrawFunc(layer.Nodes, p.drawNodes)
	m.SetDrawFunc(layer.Chiron, p.drawChiron)
	m.SetDrawFunc(layer.Asteroids, p.drawAsteroids)
	m.SetDrawFunc(layer.ArabicParts, p.drawParts)
	m.SetDrawFunc(layer.FixedStars, p.drawFixedStars)
}

// Register wires a default painter into m.
func Register(m *layer.Manager) {
	NewPainter().Register(m)
}

// Compose runs the visible layers' draw functions in paint order.
// Layers that are not interactive are drawn without hover or selection.
func Compose(m *layer.Manager, ctx render.Context) []render.Composited {
	layers := m.VisibleOrdered()
	out := make([]render.Composited, 0, len(layers))
	for _, l := range layers {
		lctx := ctx
		if !l.Interactive {
			lctx.Interaction = render.Interaction{}
		}
		out = append(out, render.Composited{
			Layer:   string(l.ID),
			Opacity: l.Opacity,
			Output:  l.Draw(lctx),
		})
	}
	return out
}

// BodyElementID is the interactive element id used for a chart body.
func BodyElementID(bodyID string) string {
	return "body:" + bodyID
}

// BodyIDFromElement strips the "body:" prefix. ok is false for other elements.
func BodyIDFromElement(elementID string) (string, bool) {
	return strings.CutPrefix(elementID, "body:")
}

// LayerKinds maps body-bearing layers to the bodies they draw.
var LayerKinds = map[layer.ID]chart.BodyKind{
	layer.Planets:     chart.KindPlanet,
	layer.Nodes:       chart.KindNode,
	layer.Chiron:      chart.KindChiron,
	layer.Asteroids:   chart.KindAsteroid,
	layer.ArabicParts: chart.KindPart,
}

// Selectable returns element ids for bodies of the given kinds, ordered by
// longitude, for cursor navigation.
func Selectable(d *chart.Data, kinds ...chart.BodyKind) []string {
	if d == nil {
		return nil
	}
	var bodies []chart.Body
	for _, b := range d.Bodies {
		if slices.Contains(kinds, b.Kind) {
			bodies = append(bodies, b)
		}
	}
	if slices.Contains(kinds, chart.KindPart) && len(d.BodiesOfKind(chart.KindPart)) == 0 {
		bodies = append(bodies, chart.Parts(d)...)
	}
	slices.SortStableFunc(bodies, func(a, b chart.Body) int {
		return cmp.Compare(a.Longitude, b.Longitude)
	})

	out := make([]string, len(bodies))
	for i, b := range bodies {
		out[i] = BodyElementID(b.ID)
	}
	return out
}

// Highlights returns the aspects touching the selected element, in chart order.
func Highlights(d *chart.Data, selected string) []string {
	bodyID, ok := BodyIDFromElement(selected)
	if d == nil || !ok {
		return nil
	}
	var out []string
	for _, a := range d.Aspects {
		if a.Involves(bodyID) {
			out = append(out, a.ID())
		}
	}
	return out
}
