package astro

import (
	"math"
	"testing"
	"time"
)

func TestEquatorialToEcliptic(t *testing.T) {
	j2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		ra, dec float64
		wantLon float64
		wantLat float64
		tol     float64
	}{
		{"vernal equinox", 0, 0, 0, 0, 1e-6},
		{"summer solstice", 90, 23.4392911, 90, 0, 1e-4},
		{"Spica", 201.298, -11.161, 203.84, -2.05, 0.2},
		{"Regulus", 152.093, 11.967, 149.83, 0.46, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EquatorialToEcliptic(tt.ra, tt.dec, j2000)
			if angleDiff(got.LonDeg, tt.wantLon) > tt.tol {
				t.Errorf("lon = %v, want %v (±%v)", got.LonDeg, tt.wantLon, tt.tol)
			}
			if math.Abs(got.LatDeg-tt.wantLat) > tt.tol {
				t.Errorf("lat = %v, want %v (±%v)", got.LatDeg, tt.wantLat, tt.tol)
			}
		})
	}
}

func TestEquatorialToEcliptic_Precession(t *testing.T) {
	j2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	j2100 := time.Date(2100, 1, 1, 12, 0, 0, 0, time.UTC)

	a := EquatorialToEcliptic(152.093, 11.967, j2000)
	b := EquatorialToEcliptic(152.093, 11.967, j2100)

	// A century of precession moves stars ~1.4° forward in longitude.
	if d := b.LonDeg - a.LonDeg; math.Abs(d-1.397) > 0.01 {
		t.Errorf("precession over a century = %v, want ~1.397", d)
	}
}

// eclipticToEquatorial is the inverse rotation, used to verify angles.
func eclipticToEquatorial(lonDeg float64, t time.Time) (raDeg, decDeg float64) {
	eps := degToRad(Obliquity(t))
	lon := degToRad(lonDeg)
	ra := math.Atan2(math.Sin(lon)*math.Cos(eps), math.Cos(lon))
	dec := math.Asin(math.Sin(eps) * math.Sin(lon))
	return normalizeAngle360(radToDeg(ra)), radToDeg(dec)
}

func TestMidheaven_OnMeridian(t *testing.T) {
	obs := Observer{LatDeg: 51.5, LonDeg: -0.12}
	for hour := 0; hour < 24; hour += 5 {
		tm := time.Date(1990, 4, 12, hour, 30, 0, 0, time.UTC)
		mc := Midheaven(tm, obs)
		ra, _ := eclipticToEquatorial(mc, tm)
		lst := LocalSiderealTime(tm, obs.LonDeg)
		if angleDiff(ra, lst) > 1e-6 {
			t.Errorf("hour %d: MC right ascension %v != LST %v", hour, ra, lst)
		}
	}
}

func TestAscendant_OnEasternHorizon(t *testing.T) {
	observers := []Observer{
		{LatDeg: 51.5, LonDeg: -0.12},
		{LatDeg: -33.9, LonDeg: 151.2},
		{LatDeg: 0, LonDeg: 0},
	}

	for _, obs := range observers {
		for hour := 0; hour < 24; hour += 3 {
			tm := time.Date(2024, 6, 15, hour, 0, 0, 0, time.UTC)
			asc := Ascendant(tm, obs)
			ra, dec := eclipticToEquatorial(asc, tm)

			ha := degToRad(LocalSiderealTime(tm, obs.LonDeg) - ra)
			lat := degToRad(obs.LatDeg)
			decR := degToRad(dec)
			sinAlt := math.Sin(lat)*math.Sin(decR) + math.Cos(lat)*math.Cos(decR)*math.Cos(ha)

			if math.Abs(sinAlt) > 1e-6 {
				t.Errorf("lat %v hour %d: ascendant altitude sin = %v, want 0", obs.LatDeg, hour, sinAlt)
			}
			// Rising points have negative hour angle (east of meridian).
			if math.Sin(ha) > 0 {
				t.Errorf("lat %v hour %d: ascendant %v is setting, not rising", obs.LatDeg, hour, asc)
			}
		}
	}
}

func angleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}
