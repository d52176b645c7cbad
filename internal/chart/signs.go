package chart

import (
	"fmt"
	"math"
)

// Sign is a zodiac sign, Aries = 0 through Pisces = 11.
type Sign int

const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

// Element is the classical element of a sign.
type Element string

const (
	Fire  Element = "fire"
	Earth Element = "earth"
	Air   Element = "air"
	Water Element = "water"
)

var signNames = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

var signGlyphs = [12]rune{'♈', '♉', '♊', '♋', '♌', '♍', '♎', '♏', '♐', '♑', '♒', '♓'}

// SignOf returns the sign containing an ecliptic longitude.
func SignOf(lon float64) Sign {
	return Sign(int(Normalize(lon)/30) % 12)
}

func (s Sign) String() string {
	if s < 0 || s > 11 {
		return "Unknown"
	}
	return signNames[s]
}

// Abbrev returns the three letter abbreviation ("Ari").
func (s Sign) Abbrev() string {
	return s.String()[:3]
}

// Glyph returns the unicode zodiac glyph.
func (s Sign) Glyph() rune {
	if s < 0 || s > 11 {
		return '?'
	}
	return signGlyphs[s]
}

// Element follows the fire, earth, air, water cycle starting at Aries.
func (s Sign) Element() Element {
	switch int(s) % 4 {
	case 0:
		return Fire
	case 1:
		return Earth
	case 2:
		return Air
	default:
		return Water
	}
}

// ElementOf returns the element of the sign containing lon.
func ElementOf(lon float64) Element {
	return SignOf(lon).Element()
}

// FormatLongitude renders a longitude as degrees and minutes within its sign,
// e.g. "14°07' Ari".
func FormatLongitude(lon float64) string {
	lon = Normalize(lon)
	within := math.Mod(lon, 30)
	deg := int(within)
	min := int(math.Round((within - float64(deg)) * 60))
	if min == 60 {
		deg++
		min = 0
	}
	sign := SignOf(lon)
	if deg == 30 {
		deg = 0
		sign = (sign + 1) % 12
	}
	return fmt.Sprintf("%02d°%02d' %s", deg, min, sign.Abbrev())
}
