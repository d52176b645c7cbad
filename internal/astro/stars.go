package astro

import "time"

// Star represents a cataloged star with position and brightness.
type Star struct {
	Name   string  // Common name (e.g., "Regulus", "Spica")
	RAdeg  float64 // Right Ascension in degrees (J2000)
	DecDeg float64 // Declination in degrees (J2000)
	Mag    float64 // Apparent visual magnitude (lower = brighter)
}

// StarCatalog holds a collection of stars for the fixed star layer.
type StarCatalog struct {
	Stars []Star
}

// DefaultStarCatalog returns the bright stars traditionally used in chart
// work. Coordinates are J2000 epoch.
func DefaultStarCatalog() StarCatalog {
	return StarCatalog{
		Stars: defaultStars,
	}
}

// defaultStars is ordered roughly by magnitude (brightest first).
var defaultStars = []Star{
	{"Sirius", 101.287, -16.716, -1.46},
	{"Canopus", 95.988, -52.696, -0.74},
	{"Arcturus", 213.915, 19.182, -0.05},
	{"Vega", 279.235, 38.784, 0.03},
	{"Capella", 79.172, 45.998, 0.08},
	{"Rigel", 78.634, -8.202, 0.13},
	{"Procyon", 114.826, 5.225, 0.34},
	{"Achernar", 24.429, -57.237, 0.46},
	{"Betelgeuse", 88.793, 7.407, 0.50},
	{"Altair", 297.696, 8.868, 0.76},
	{"Aldebaran", 68.980, 16.509, 0.85},
	{"Antares", 247.352, -26.432, 0.96},
	{"Spica", 201.298, -11.161, 0.97},
	{"Pollux", 116.329, 28.026, 1.14},
	{"Fomalhaut", 344.413, -29.622, 1.16},
	{"Deneb", 310.358, 45.280, 1.25},
	{"Regulus", 152.093, 11.967, 1.35},
	{"Castor", 113.650, 31.889, 1.58},
	{"Bellatrix", 81.283, 6.350, 1.64},
	{"Elnath", 81.573, 28.608, 1.65},
	{"Alnilam", 84.053, -1.202, 1.69},
	{"Alphard", 141.897, -8.659, 2.00},
	{"Hamal", 31.793, 23.463, 2.00},
	{"Polaris", 37.954, 89.264, 2.02},
	{"Denebola", 177.265, 14.572, 2.13},
	{"Algol", 47.042, 40.957, 2.12},
	{"Alphecca", 233.672, 26.715, 2.23},
	{"Scheat", 345.944, 28.083, 2.42},
	{"Markab", 346.190, 15.205, 2.49},
	{"Vindemiatrix", 195.544, 10.959, 2.83},
	{"Alcyone", 56.871, 24.105, 2.87},
	{"Zubenelgenubi", 222.720, -16.042, 2.75},
	{"Zubeneschamali", 229.252, -9.383, 2.61},
	{"Acubens", 134.622, 11.858, 4.25},
}

// FixedStar is a catalog star placed on the ecliptic for a chart time.
type FixedStar struct {
	Star
	Ecliptic EclipticCoord
}

// Brightest returns stars at or brighter than maxMag, projected to the
// ecliptic of date t. Order follows the catalog.
func (c StarCatalog) Brightest(maxMag float64, t time.Time) []FixedStar {
	var out []FixedStar
	for _, s := range c.Stars {
		if s.Mag > maxMag {
			continue
		}
		out = append(out, FixedStar{
			Star:     s,
			Ecliptic: EquatorialToEcliptic(s.RAdeg, s.DecDeg, t),
		})
	}
	return out
}
