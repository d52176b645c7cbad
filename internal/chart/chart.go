// Package chart defines the immutable birth chart data consumed by the renderer.
package chart

import (
	"math"
	"time"
)

// BodyKind groups chart bodies by what they are.
type BodyKind string

const (
	KindPlanet   BodyKind = "planet"
	KindNode     BodyKind = "node"
	KindChiron   BodyKind = "chiron"
	KindAsteroid BodyKind = "asteroid"
	KindPart     BodyKind = "part"
)

// HouseSystem names the cusp division used for a chart.
type HouseSystem string

const (
	HouseEqual     HouseSystem = "equal"
	HouseWholeSign HouseSystem = "whole-sign"
	HousePorphyry  HouseSystem = "porphyry"
)

// ParseHouseSystem parses a house system name, defaulting to equal houses.
func ParseHouseSystem(s string) HouseSystem {
	switch s {
	case "whole-sign", "whole", "wholesign":
		return HouseWholeSign
	case "porphyry":
		return HousePorphyry
	default:
		return HouseEqual
	}
}

// Location is the birth place.
type Location struct {
	Name   string  `json:"name,omitempty"`
	LatDeg float64 `json:"latitude"`
	LonDeg float64 `json:"longitude"` // east positive
}

// Angles holds the chart's angular points in ecliptic longitude degrees.
type Angles struct {
	Ascendant float64 `json:"ascendant"`
	Midheaven float64 `json:"midheaven"`
}

// Body is a point placed on the wheel: planet, node, asteroid or computed part.
type Body struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Kind      BodyKind `json:"kind"`
	Longitude float64  `json:"longitude"`          // ecliptic longitude, 0-360
	Latitude  float64  `json:"latitude,omitempty"` // ecliptic latitude
	Speed     float64  `json:"speed,omitempty"`    // degrees per day
}

// Retrograde reports apparent backward motion.
func (b Body) Retrograde() bool {
	return b.Speed < 0
}

// Data is one computed chart. It is never mutated after construction.
type Data struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Time        time.Time   `json:"time"`
	Location    Location    `json:"location"`
	HouseSystem HouseSystem `json:"house_system"`
	Angles      Angles      `json:"angles"`
	Cusps       [12]float64 `json:"cusps"`
	Bodies      []Body      `json:"bodies"`
	Aspects     []Aspect    `json:"aspects"`
}

// BodiesOfKind returns the bodies of one kind in chart order.
func (d *Data) BodiesOfKind(kind BodyKind) []Body {
	if d == nil {
		return nil
	}
	var out []Body
	for _, b := range d.Bodies {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// Body looks up a body by id.
func (d *Data) Body(id string) (Body, bool) {
	if d == nil {
		return Body{}, false
	}
	for _, b := range d.Bodies {
		if b.ID == id {
			return b, true
		}
	}
	return Body{}, false
}

// HouseOf returns the 1-based house containing the longitude.
// Returns 0 if the chart has no cusps.
func (d *Data) HouseOf(lon float64) int {
	if d == nil {
		return 0
	}
	lon = Normalize(lon)
	for i := 0; i < 12; i++ {
		start := d.Cusps[i]
		end := d.Cusps[(i+1)%12]
		if start == end {
			continue
		}
		if arcContains(start, end, lon) {
			return i + 1
		}
	}
	return 0
}

// arcContains reports whether lon lies on the arc going forward from start to end.
func arcContains(start, end, lon float64) bool {
	span := Normalize(end - start)
	off := Normalize(lon - start)
	return off < span
}

// Normalize wraps a longitude into 0-360.
func Normalize(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// Separation is the shortest angular distance between two longitudes, 0-180.
func Separation(a, b float64) float64 {
	d := Normalize(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}
