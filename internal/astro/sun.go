package astro

import (
	"math"
	"time"
)

// SunLongitude returns the apparent ecliptic longitude of the Sun in degrees.
// Uses the low precision solar theory from the Astronomical Almanac, good
// to about 0.01 degrees.
func SunLongitude(t time.Time) float64 {
	T := julianCenturies(t)

	// Mean longitude and mean anomaly
	L0 := normalizeAngle360(280.46646 + 36000.76983*T + 0.0003032*T*T)
	M := normalizeAngle360(357.52911 + 35999.05029*T - 0.0001537*T*T)
	Mrad := degToRad(M)

	// Equation of center
	C := (1.914602 - 0.004817*T - 0.000014*T*T) * math.Sin(Mrad)
	C += (0.019993 - 0.000101*T) * math.Sin(2*Mrad)
	C += 0.000289 * math.Sin(3*Mrad)

	// Aberration and nutation
	omega := 125.04 - 1934.136*T
	return normalizeAngle360(L0 + C - 0.00569 - 0.00478*math.Sin(degToRad(omega)))
}

// dailyMotion estimates speed in degrees/day by sampling fn an hour apart.
func dailyMotion(fn func(time.Time) float64, t time.Time) float64 {
	a := fn(t)
	b := fn(t.Add(time.Hour))
	d := b - a
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return d * 24
}

// SunSpeed returns the Sun's apparent motion in degrees per day.
func SunSpeed(t time.Time) float64 {
	return dailyMotion(SunLongitude, t)
}
