package chart

import (
	"cmp"
	"fmt"
	"slices"
)

// AspectKind names a major aspect.
type AspectKind string

const (
	Conjunction AspectKind = "conjunction"
	Sextile     AspectKind = "sextile"
	Square      AspectKind = "square"
	Trine       AspectKind = "trine"
	Opposition  AspectKind = "opposition"
)

// Aspect is an angular relationship between two bodies.
type Aspect struct {
	From string     `json:"from"`
	To   string     `json:"to"`
	Kind AspectKind `json:"kind"`
	Orb  float64    `json:"orb"` // absolute deviation from exact, degrees
}

// ID identifies the aspect as an interactive element ("aspect:sun-moon").
func (a Aspect) ID() string {
	return fmt.Sprintf("aspect:%s-%s", a.From, a.To)
}

// Involves reports whether bodyID is one end of the aspect.
func (a Aspect) Involves(bodyID string) bool {
	return a.From == bodyID || a.To == bodyID
}

// AspectRule is one aspect angle and its allowed orb.
type AspectRule struct {
	Kind  AspectKind
	Angle float64
	Orb   float64
}

// AspectSet is the list of rules used when searching for aspects.
type AspectSet []AspectRule

// DefaultAspects returns the five major aspects with conventional orbs.
func DefaultAspects() AspectSet {
	return AspectSet{
		{Conjunction, 0, 8},
		{Sextile, 60, 4},
		{Square, 90, 6},
		{Trine, 120, 6},
		{Opposition, 180, 8},
	}
}

// FindAspects returns every pair of bodies within orb of a rule.
// Each pair contributes at most one aspect, the tightest matching rule.
// Results are ordered by orb, tightest first.
func FindAspects(bodies []Body, rules AspectSet) []Aspect {
	var out []Aspect
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			sep := Separation(bodies[i].Longitude, bodies[j].Longitude)

			best := -1.0
			var kind AspectKind
			for _, r := range rules {
				orb := sep - r.Angle
				if orb < 0 {
					orb = -orb
				}
				if orb <= r.Orb && (best < 0 || orb < best) {
					best = orb
					kind = r.Kind
				}
			}
			if best < 0 {
				continue
			}
			out = append(out, Aspect{
				From: bodies[i].ID,
				To:   bodies[j].ID,
				Kind: kind,
				Orb:  best,
			})
		}
	}

	slices.SortStableFunc(out, func(a, b Aspect) int {
		return cmp.Compare(a.Orb, b.Orb)
	})
	return out
}
