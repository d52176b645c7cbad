package astro

import (
	"math"
	"time"
)

// EclipticCoord is a position in ecliptic longitude/latitude, degrees.
type EclipticCoord struct {
	LonDeg float64
	LatDeg float64
}

// precessionPerCentury is general precession in longitude, degrees per Julian century.
const precessionPerCentury = 1.396971

// EquatorialToEcliptic converts J2000 RA/Dec to ecliptic coordinates of date.
// Precession is applied as a shift in longitude only, which is adequate for
// placing stars on a chart wheel.
func EquatorialToEcliptic(raDeg, decDeg float64, t time.Time) EclipticCoord {
	eps := degToRad(23.4392911) // J2000 obliquity
	ra := degToRad(raDeg)
	dec := degToRad(decDeg)

	lon := math.Atan2(math.Sin(ra)*math.Cos(eps)+math.Tan(dec)*math.Sin(eps), math.Cos(ra))
	lat := math.Asin(math.Sin(dec)*math.Cos(eps) - math.Cos(dec)*math.Sin(eps)*math.Sin(ra))

	return EclipticCoord{
		LonDeg: normalizeAngle360(radToDeg(lon) + precessionPerCentury*julianCenturies(t)),
		LatDeg: radToDeg(lat),
	}
}

// Midheaven returns the ecliptic longitude culminating on the meridian.
func Midheaven(t time.Time, obs Observer) float64 {
	ramc := degToRad(LocalSiderealTime(t, obs.LonDeg))
	eps := degToRad(Obliquity(t))
	return normalizeAngle360(radToDeg(math.Atan2(math.Sin(ramc), math.Cos(ramc)*math.Cos(eps))))
}

// Ascendant returns the ecliptic longitude rising on the eastern horizon.
func Ascendant(t time.Time, obs Observer) float64 {
	ramc := degToRad(LocalSiderealTime(t, obs.LonDeg))
	eps := degToRad(Obliquity(t))
	lat := degToRad(obs.LatDeg)

	y := math.Cos(ramc)
	x := -(math.Sin(ramc)*math.Cos(eps) + math.Tan(lat)*math.Sin(eps))
	return normalizeAngle360(radToDeg(math.Atan2(y, x)))
}
