package chart

// IsDayChart reports whether the Sun is above the horizon, i.e. in houses
// 7 through 12 measured from the ascendant.
func IsDayChart(asc, sun float64) bool {
	return Normalize(sun-asc) >= 180
}

// PartOfFortune computes the Lot of Fortune from the ascendant, Sun and Moon.
// Day charts use ASC + Moon - Sun, night charts reverse the luminaries.
func PartOfFortune(asc, sun, moon float64) float64 {
	if IsDayChart(asc, sun) {
		return Normalize(asc + moon - sun)
	}
	return Normalize(asc + sun - moon)
}

// PartOfSpirit is the mirror of Fortune.
func PartOfSpirit(asc, sun, moon float64) float64 {
	if IsDayChart(asc, sun) {
		return Normalize(asc + sun - moon)
	}
	return Normalize(asc + moon - sun)
}

// Parts derives the Arabic parts from a chart's Sun, Moon and ascendant.
// Returns nil when either luminary is missing.
func Parts(d *Data) []Body {
	sun, okSun := d.Body("sun")
	moon, okMoon := d.Body("moon")
	if !okSun || !okMoon {
		return nil
	}
	asc := d.Angles.Ascendant
	return []Body{
		{ID: "fortune", Name: "Part of Fortune", Kind: KindPart, Longitude: PartOfFortune(asc, sun.Longitude, moon.Longitude)},
		{ID: "spirit", Name: "Part of Spirit", Kind: KindPart, Longitude: PartOfSpirit(asc, sun.Longitude, moon.Longitude)},
	}
}
