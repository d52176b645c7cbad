package wheel

import (
	"fmt"
	"strings"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/render"
)

// SignElementID returns the element id for a sign ("sign:aries").
func SignElementID(s chart.Sign) string {
	return "sign:" + strings.ToLower(s.String())
}

// HouseElementID returns the element id for a house ("house:1").
func HouseElementID(n int) string {
	return fmt.Sprintf("house:%d", n)
}

// drawZodiac paints the two zodiac circles, one coloured arc and glyph per
// sign, and the sign boundaries.
func (p *Painter) drawZodiac(ctx render.Context) render.Output {
	var out render.Output
	g := ctx.Geometry

	out.Circle(g.Center, g.InnerRadius, colorRing, '·')

	mid := (g.OuterRadius + g.InnerRadius) / 2
	for i := range 12 {
		sign := chart.Sign(i)
		start := float64(i * 30)
		color := ctx.ElementColor(sign.Element())
		id := SignElementID(sign)

		out.Add(render.Mark{
			Shape:     render.ShapeArc,
			Points:    ctx.ArcPoints(start, start+30, g.OuterRadius, 12),
			Radius:    g.OuterRadius,
			Path:      ctx.ArcPath(start, start+30, g.OuterRadius),
			Color:     color,
			Stroke:    '─',
			ElementID: id,
		})
		out.Line(ctx.Project(start, g.InnerRadius), ctx.Project(start, g.OuterRadius), colorRingDim, '·')

		glyph := render.Mark{
			Shape:     render.ShapeGlyph,
			Points:    []render.Point{ctx.Project(start+15, mid)},
			Text:      string(sign.Glyph()),
			Color:     color,
			ElementID: id,
		}
		if ctx.Interaction.Hovered == id || ctx.Interaction.Selected == id {
			glyph.Bold = true
			glyph.Color = colorHovered
		}
		out.Add(glyph)
	}
	return out
}

// drawDegrees paints ticks on the inside of the zodiac ring: every 5° short,
// every 10° long.
func (p *Painter) drawDegrees(ctx render.Context) render.Output {
	var out render.Output
	g := ctx.Geometry
	short := g.Size * 0.012
	long := g.Size * 0.025

	for d := 0; d < 360; d += 5 {
		if d%30 == 0 {
			continue // sign boundary already drawn
		}
		length := short
		if d%10 == 0 {
			length = long
		}
		lon := float64(d)
		out.Line(ctx.Project(lon, g.InnerRadius), ctx.Project(lon, g.InnerRadius-length), colorRingDim, '\'')
	}
	return out
}

// drawHouses paints the house circle, cusp lines and house numbers, then the
// ascendant and midheaven axes on top.
func (p *Painter) drawHouses(ctx render.Context) render.Output {
	var out render.Output
	if ctx.Chart == nil {
		return out
	}
	g := ctx.Geometry
	cusps := ctx.Chart.Cusps

	out.Circle(g.Center, g.HouseRadius, colorRing, '·')

	numberRadius := g.HouseRadius + g.Size*0.015
	for i := range 12 {
		start := cusps[i]
		end := cusps[(i+1)%12]
		id := HouseElementID(i + 1)

		out.Line(ctx.Project(start, g.HouseRadius), ctx.Project(start, g.InnerRadius), colorRingDim, '·')

		span := chart.Normalize(end - start)
		color := colorLabel
		bold := false
		if ctx.Interaction.Hovered == id || ctx.Interaction.Selected == id {
			color, bold = colorHovered, true
		}
		out.Add(render.Mark{
			Shape:     render.ShapeGlyph,
			Points:    []render.Point{ctx.Project(start+span/2, numberRadius)},
			Text:      fmt.Sprint(i + 1),
			Color:     color,
			Bold:      bold,
			ElementID: id,
		})
	}

	angles := []struct {
		label string
		lon   float64
	}{
		{"AC", ctx.Chart.Angles.Ascendant},
		{"DC", ctx.Chart.Angles.Ascendant + 180},
		{"MC", ctx.Chart.Angles.Midheaven},
		{"IC", ctx.Chart.Angles.Midheaven + 180},
	}
	for _, a := range angles {
		out.Add(render.Mark{
			Shape:  render.ShapeLine,
			Points: []render.Point{ctx.Project(a.lon, g.HouseRadius), ctx.Project(a.lon, g.OuterRadius)},
			Color:  colorAngle,
			Stroke: '•',
			Bold:   true,
		})
		out.Add(render.Mark{
			Shape:  render.ShapeGlyph,
			Points: []render.Point{ctx.Project(a.lon, g.OuterRadius+g.Size*0.035)},
			Text:   a.label,
			Color:  colorAngle,
			Bold:   true,
		})
	}
	return out
}
