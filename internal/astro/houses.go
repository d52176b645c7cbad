package astro

import "math"

// EqualCusps divides the wheel into twelve 30° houses from the ascendant.
func EqualCusps(asc float64) [12]float64 {
	var cusps [12]float64
	for i := range cusps {
		cusps[i] = normalizeAngle360(asc + float64(i)*30)
	}
	return cusps
}

// WholeSignCusps starts house 1 at 0° of the rising sign.
func WholeSignCusps(asc float64) [12]float64 {
	return EqualCusps(math.Floor(normalizeAngle360(asc)/30) * 30)
}

// PorphyryCusps trisects each quadrant between the angles.
func PorphyryCusps(asc, mc float64) [12]float64 {
	asc = normalizeAngle360(asc)
	mc = normalizeAngle360(mc)
	ic := normalizeAngle360(mc + 180)
	dsc := normalizeAngle360(asc + 180)

	var cusps [12]float64
	// Each quadrant: starting cusp index and its two angle endpoints.
	quadrants := []struct {
		idx        int
		start, end float64
	}{
		{0, asc, ic},
		{3, ic, dsc},
		{6, dsc, mc},
		{9, mc, asc},
	}
	for _, q := range quadrants {
		span := normalizeAngle360(q.end - q.start)
		cusps[q.idx] = q.start
		cusps[q.idx+1] = normalizeAngle360(q.start + span/3)
		cusps[q.idx+2] = normalizeAngle360(q.start + 2*span/3)
	}
	return cusps
}
