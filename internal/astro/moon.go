package astro

import (
	"math"
	"time"
)

// moonTerm is one periodic term of the lunar longitude series:
// coeff * sin(d*D + m*M + mp*M' + f*F).
type moonTerm struct {
	d, m, mp, f float64
	coeff       float64
}

// Largest terms of the ELP-2000 longitude series (Meeus, ch. 47).
// Truncated to roughly 0.1 degree accuracy.
var moonTerms = []moonTerm{
	{0, 0, 1, 0, 6.288774},
	{2, 0, -1, 0, 1.274027},
	{2, 0, 0, 0, 0.658314},
	{0, 0, 2, 0, 0.213618},
	{0, 1, 0, 0, -0.185116},
	{0, 0, 0, 2, -0.114332},
	{2, 0, -2, 0, 0.058793},
	{2, -1, -1, 0, 0.057066},
	{2, 0, 1, 0, 0.053322},
	{2, -1, 0, 0, 0.045758},
	{0, 1, -1, 0, -0.040923},
	{1, 0, 0, 0, -0.034720},
	{0, 1, 1, 0, -0.030383},
	{2, 0, 0, -2, 0.015327},
	{0, 0, 1, 2, -0.012528},
	{0, 0, 1, -2, 0.010980},
}

// MoonLongitude returns the Moon's geocentric ecliptic longitude in degrees.
func MoonLongitude(t time.Time) float64 {
	T := julianCenturies(t)

	Lp := 218.3164477 + 481267.88123421*T
	D := 297.8501921 + 445267.1114034*T
	M := 357.5291092 + 35999.0502909*T
	Mp := 134.9633964 + 477198.8675055*T
	F := 93.2720950 + 483202.0175233*T

	sum := 0.0
	for _, term := range moonTerms {
		arg := term.d*D + term.m*M + term.mp*Mp + term.f*F
		sum += term.coeff * math.Sin(degToRad(arg))
	}

	return normalizeAngle360(Lp + sum)
}

// MoonSpeed returns the Moon's motion in degrees per day.
func MoonSpeed(t time.Time) float64 {
	return dailyMotion(MoonLongitude, t)
}

// MeanNode returns the longitude of the mean ascending lunar node.
// The south node is always opposite.
func MeanNode(t time.Time) float64 {
	T := julianCenturies(t)
	return normalizeAngle360(125.0445479 - 1934.1362891*T + 0.0020754*T*T)
}
