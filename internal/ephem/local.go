package ephem

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/chart"
)

// LocalProvider casts charts in process from the astro package: Sun, Moon,
// mean lunar nodes, angles, cusps and the Arabic parts. Slower planets need
// the chart backend.
type LocalProvider struct {
	aspects chart.AspectSet
	newID   func() string
}

// LocalOption configures a LocalProvider.
type LocalOption func(*LocalProvider)

// WithAspects replaces the aspect rules used for the computed chart.
func WithAspects(set chart.AspectSet) LocalOption {
	return func(p *LocalProvider) {
		p.aspects = set
	}
}

// WithIDFunc replaces the chart id generator.
func WithIDFunc(fn func() string) LocalOption {
	return func(p *LocalProvider) {
		p.newID = fn
	}
}

// NewLocalProvider creates a provider backed by the built-in ephemeris.
func NewLocalProvider(opts ...LocalOption) *LocalProvider {
	p := &LocalProvider{
		aspects: chart.DefaultAspects(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements Provider.
func (p *LocalProvider) Name() string {
	return "local"
}

// Chart implements Provider.
func (p *LocalProvider) Chart(ctx context.Context, req Request) (*chart.Data, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t := req.Time.UTC()
	obs := astro.Observer{
		LatDeg: req.Location.LatDeg,
		LonDeg: req.Location.LonDeg,
		Name:   req.Location.Name,
	}

	asc := astro.Ascendant(t, obs)
	mc := astro.Midheaven(t, obs)
	system := req.HouseSystem
	if system == "" {
		system = chart.HouseEqual
	}

	var cusps [12]float64
	switch system {
	case chart.HouseWholeSign:
		cusps = astro.WholeSignCusps(asc)
	case chart.HousePorphyry:
		cusps = astro.PorphyryCusps(asc, mc)
	case chart.HouseEqual:
		cusps = astro.EqualCusps(asc)
	default:
		return nil, fmt.Errorf("request: unknown house system %q", system)
	}

	node := astro.MeanNode(t)
	nodeSpeed := -0.05295 // mean node regression, degrees per day
	bodies := []chart.Body{
		{ID: "sun", Name: "Sun", Kind: chart.KindPlanet, Longitude: astro.SunLongitude(t), Speed: astro.SunSpeed(t)},
		{ID: "moon", Name: "Moon", Kind: chart.KindPlanet, Longitude: astro.MoonLongitude(t), Speed: astro.MoonSpeed(t)},
		{ID: "north_node", Name: "North Node", Kind: chart.KindNode, Longitude: node, Speed: nodeSpeed},
		{ID: "south_node", Name: "South Node", Kind: chart.KindNode, Longitude: chart.Normalize(node + 180), Speed: nodeSpeed},
	}

	d := &chart.Data{
		ID:          p.newID(),
		Name:        req.Name,
		Time:        t,
		Location:    req.Location,
		HouseSystem: system,
		Angles:      chart.Angles{Ascendant: asc, Midheaven: mc},
		Cusps:       cusps,
		Bodies:      bodies,
	}
	d.Bodies = append(d.Bodies, chart.Parts(d)...)
	d.Aspects = chart.FindAspects(d.BodiesOfKind(chart.KindPlanet), p.aspects)
	return d, nil
}
