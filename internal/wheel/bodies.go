package wheel

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/render"
)

var bodyGlyphs = map[string]string{
	"sun":        "☉",
	"moon":       "☽",
	"mercury":    "☿",
	"venus":      "♀",
	"mars":       "♂",
	"jupiter":    "♃",
	"saturn":     "♄",
	"uranus":     "♅",
	"neptune":    "♆",
	"pluto":      "♇",
	"north_node": "☊",
	"south_node": "☋",
	"chiron":     "⚷",
	"ceres":      "⚳",
	"pallas":     "⚴",
	"juno":       "⚵",
	"vesta":      "⚶",
	"fortune":    "⊗",
	"spirit":     "⊙",
}

// partLabels are short names drawn beside Arabic part glyphs.
var partLabels = map[string]string{
	"fortune": "PoF",
	"spirit":  "PoS",
}

// Glyph returns the display symbol for a body id, falling back to its
// capitalised initial.
func Glyph(bodyID string) string {
	if g, ok := bodyGlyphs[bodyID]; ok {
		return g
	}
	if bodyID == "" {
		return "?"
	}
	return strings.ToUpper(bodyID[:1])
}

const (
	minSeparation = 6.0 // degrees before neighbouring glyphs are staggered
	maxLevels     = 4
)

type placed struct {
	chart.Body
	Level int
	Point render.Point
}

// wheelBodies returns every body on the wheel, adding derived Arabic parts
// when the chart carries none.
func wheelBodies(d *chart.Data) []chart.Body {
	bodies := slices.Clone(d.Bodies)
	if len(d.BodiesOfKind(chart.KindPart)) == 0 {
		bodies = append(bodies, chart.Parts(d)...)
	}
	return bodies
}

// placeBodies staggers crowded bodies inward so their glyphs do not overlap.
// Placement runs over every body in the chart so positions stay put when
// body layers are toggled.
func placeBodies(ctx render.Context) map[string]placed {
	bodies := wheelBodies(ctx.Chart)
	slices.SortStableFunc(bodies, func(a, b chart.Body) int {
		return cmp.Compare(a.Longitude, b.Longitude)
	})

	g := ctx.Geometry
	step := g.Size * 0.02
	out := make(map[string]placed, len(bodies))
	level := 0
	for i, b := range bodies {
		if i > 0 && chart.Separation(bodies[i-1].Longitude, b.Longitude) < minSeparation {
			level = (level + 1) % maxLevels
		} else {
			level = 0
		}
		out[b.ID] = placed{
			Body:  b,
			Level: level,
			Point: ctx.Project(b.Longitude, g.PlanetRadius-float64(level)*step),
		}
	}
	return out
}

// bodyMark styles a body glyph for the current interaction.
func bodyMark(ctx render.Context, p placed, color string) render.Mark {
	id := BodyElementID(p.ID)
	m := render.Mark{
		Shape:     render.ShapeGlyph,
		Points:    []render.Point{p.Point},
		Text:      Glyph(p.ID),
		Color:     color,
		ElementID: id,
	}
	switch {
	case ctx.Interaction.Selected == id:
		m.Color, m.Bold = colorSelected, true
	case ctx.Interaction.Hovered == id:
		m.Color, m.Bold = colorHovered, true
	}
	return m
}

func (p *Painter) drawKind(ctx render.Context, kind chart.BodyKind, color string) render.Output {
	var out render.Output
	if ctx.Chart == nil {
		return out
	}
	positions := placeBodies(ctx)
	for _, b := range wheelBodies(ctx.Chart) {
		if b.Kind != kind {
			continue
		}
		pl := positions[b.ID]
		out.Add(bodyMark(ctx, pl, color))
		if label, ok := partLabels[b.ID]; ok {
			out.Text(render.Point{X: pl.Point.X + 1, Y: pl.Point.Y}, label, color)
		}
	}
	return out
}

func (p *Painter) drawPlanets(ctx render.Context) render.Output {
	return p.drawKind(ctx, chart.KindPlanet, colorBody)
}

func (p *Painter) drawNodes(ctx render.Context) render.Output {
	return p.drawKind(ctx, chart.KindNode, colorNode)
}

func (p *Painter) drawChiron(ctx render.Context) render.Output {
	return p.drawKind(ctx, chart.KindChiron, colorChiron)
}

func (p *Painter) drawAsteroids(ctx render.Context) render.Output {
	return p.drawKind(ctx, chart.KindAsteroid, colorAsteroid)
}

func (p *Painter) drawParts(ctx render.Context) render.Output {
	return p.drawKind(ctx, chart.KindPart, colorPart)
}

// Label is the degree text drawn beside a body: degrees within the sign,
// with ℞ when retrograde.
func Label(b chart.Body) string {
	deg := int(chart.Normalize(b.Longitude)) % 30
	if b.Retrograde() {
		return fmt.Sprintf("%d°℞", deg)
	}
	return fmt.Sprintf("%d°", deg)
}

// drawLabels writes degree labels just outside the planet ring.
func (p *Painter) drawLabels(ctx render.Context) render.Output {
	var out render.Output
	if ctx.Chart == nil {
		return out
	}
	g := ctx.Geometry
	radius := g.PlanetRadius + (g.InnerRadius-g.PlanetRadius)*0.5
	positions := placeBodies(ctx)
	for _, b := range ctx.Chart.BodiesOfKind(chart.KindPlanet) {
		pl := positions[b.ID]
		id := BodyElementID(b.ID)
		color := colorLabel
		if ctx.Interaction.Selected == id {
			color = colorSelected
		}
		// Crowded bodies get their label on the same stagger as the glyph.
		lon := b.Longitude + float64(pl.Level)*1.5
		out.Add(render.Mark{
			Shape:     render.ShapeGlyph,
			Points:    []render.Point{ctx.Project(lon, radius)},
			Text:      Label(b),
			Color:     color,
			ElementID: id,
		})
	}
	return out
}

func aspectColor(kind chart.AspectKind) string {
	switch kind {
	case chart.Conjunction:
		return colorConjunct
	case chart.Sextile, chart.Trine:
		return colorHarmony
	default:
		return colorTension
	}
}

// drawAspects joins aspected bodies across the inner circle. When something
// is selected, aspects not touching it are dimmed.
func (p *Painter) drawAspects(ctx render.Context) render.Output {
	var out render.Output
	if ctx.Chart == nil {
		return out
	}
	g := ctx.Geometry
	ia := ctx.Interaction
	for _, a := range ctx.Chart.Aspects {
		from, okFrom := ctx.Chart.Body(a.From)
		to, okTo := ctx.Chart.Body(a.To)
		if !okFrom || !okTo {
			continue
		}
		m := render.Mark{
			Shape:     render.ShapeLine,
			Points:    []render.Point{ctx.Project(from.Longitude, g.HouseRadius), ctx.Project(to.Longitude, g.HouseRadius)},
			Color:     aspectColor(a.Kind),
			Stroke:    '·',
			ElementID: a.ID(),
		}
		switch {
		case ia.IsHighlighted(a.ID()) || ia.Hovered == a.ID():
			m.Bold = true
			m.Stroke = '•'
		case ia.Selected != "":
			m.Color = colorDimmed
		}
		out.Add(m)
	}
	return out
}

// StarElementID returns the element id for a fixed star ("star:regulus").
func StarElementID(name string) string {
	return "star:" + strings.ToLower(name)
}

// drawFixedStars marks bright stars just outside the zodiac ring. The name is
// shown only for the hovered or selected star.
func (p *Painter) drawFixedStars(ctx render.Context) render.Output {
	var out render.Output
	if ctx.Chart == nil {
		return out
	}
	g := ctx.Geometry
	radius := g.OuterRadius + g.Size*0.018
	for _, s := range p.stars.Brightest(p.starMag, ctx.Chart.Time) {
		id := StarElementID(s.Name)
		pt := ctx.Project(s.Ecliptic.LonDeg, radius)
		active := ctx.Interaction.Hovered == id || ctx.Interaction.Selected == id
		out.Add(render.Mark{
			Shape:     render.ShapeGlyph,
			Points:    []render.Point{pt},
			Text:      "✶",
			Color:     colorStar,
			Bold:      active,
			ElementID: id,
		})
		if active {
			out.Text(render.Point{X: pt.X + 1, Y: pt.Y}, s.Name, colorStar)
		}
	}
	return out
}
