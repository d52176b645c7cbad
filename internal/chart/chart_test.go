package chart

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"
)

func TestSignOf(t *testing.T) {
	tests := []struct {
		lon      float64
		expected Sign
	}{
		{0, Aries},
		{29.99, Aries},
		{30, Taurus},
		{359.9, Pisces},
		{360, Aries},
		{-1, Pisces},
		{245, Sagittarius},
	}

	for _, tt := range tests {
		if got := SignOf(tt.lon); got != tt.expected {
			t.Errorf("SignOf(%v) = %v, want %v", tt.lon, got, tt.expected)
		}
	}
}

func TestSignElement(t *testing.T) {
	tests := []struct {
		sign     Sign
		expected Element
	}{
		{Aries, Fire},
		{Taurus, Earth},
		{Gemini, Air},
		{Cancer, Water},
		{Leo, Fire},
		{Capricorn, Earth},
		{Pisces, Water},
	}

	for _, tt := range tests {
		if got := tt.sign.Element(); got != tt.expected {
			t.Errorf("%v.Element() = %v, want %v", tt.sign, got, tt.expected)
		}
	}
}

func TestFormatLongitude(t *testing.T) {
	tests := []struct {
		lon      float64
		expected string
	}{
		{0, "00°00' Ari"},
		{14.1167, "14°07' Ari"},
		{45.5, "15°30' Tau"},
		{359.9999, "00°00' Ari"},
		{29.9999, "00°00' Tau"},
	}

	for _, tt := range tests {
		if got := FormatLongitude(tt.lon); got != tt.expected {
			t.Errorf("FormatLongitude(%v) = %q, want %q", tt.lon, got, tt.expected)
		}
	}
}

func TestSeparation(t *testing.T) {
	tests := []struct {
		a, b     float64
		expected float64
	}{
		{0, 90, 90},
		{350, 10, 20},
		{10, 350, 20},
		{0, 180, 180},
		{100, 100, 0},
	}

	for _, tt := range tests {
		if got := Separation(tt.a, tt.b); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Separation(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestHouseOf(t *testing.T) {
	d := &Data{}
	// Equal houses from 350 so house 1 spans the 0° wrap.
	for i := 0; i < 12; i++ {
		d.Cusps[i] = Normalize(350 + float64(i)*30)
	}

	tests := []struct {
		lon      float64
		expected int
	}{
		{355, 1},
		{5, 1},
		{20, 2},
		{345, 12},
		{169.9, 6},
		{170, 7},
	}

	for _, tt := range tests {
		if got := d.HouseOf(tt.lon); got != tt.expected {
			t.Errorf("HouseOf(%v) = %d, want %d", tt.lon, got, tt.expected)
		}
	}

	if got := (&Data{}).HouseOf(10); got != 0 {
		t.Errorf("HouseOf without cusps = %d, want 0", got)
	}
}

func TestFindAspects(t *testing.T) {
	bodies := []Body{
		{ID: "sun", Longitude: 10},
		{ID: "moon", Longitude: 192},   // opposition to sun, orb 2
		{ID: "mars", Longitude: 100.5}, // square sun orb 0.5, square moon orb 1.5
		{ID: "venus", Longitude: 45},   // nothing tight with sun (35°)
	}

	aspects := FindAspects(bodies, DefaultAspects())

	want := map[string]AspectKind{
		"sun-moon":  Opposition,
		"sun-mars":  Square,
		"moon-mars": Square,
	}
	if len(aspects) != len(want) {
		t.Fatalf("got %d aspects, want %d: %v", len(aspects), len(want), aspects)
	}

	got := make(map[string]AspectKind)
	for _, a := range aspects {
		got[a.From+"-"+a.To] = a.Kind
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("aspect %s = %q, want %q", k, got[k], v)
		}
	}
	if _, ok := got["sun-venus"]; ok {
		t.Error("sun-venus at 35° should not aspect")
	}

	for i := 1; i < len(aspects); i++ {
		if aspects[i].Orb < aspects[i-1].Orb {
			t.Errorf("aspects not sorted by orb: %v", aspects)
		}
	}
	if aspects[0].From != "sun" || aspects[0].To != "mars" {
		t.Errorf("tightest aspect = %s-%s, want sun-mars", aspects[0].From, aspects[0].To)
	}
}

func TestAspectInvolves(t *testing.T) {
	a := Aspect{From: "sun", To: "moon", Kind: Trine}
	if !a.Involves("moon") || a.Involves("mars") {
		t.Error("Involves mismatch")
	}
	if a.ID() != "aspect:sun-moon" {
		t.Errorf("ID() = %q", a.ID())
	}
}

func TestDecodeAndSummary(t *testing.T) {
	input := `{
		"id": "c1",
		"name": "Ada",
		"time": "1990-04-12T08:30:00Z",
		"location": {"name": "London", "latitude": 51.5, "longitude": -0.12},
		"house_system": "equal",
		"angles": {"ascendant": 100, "midheaven": 10},
		"cusps": [100,130,160,190,220,250,280,310,340,10,40,70],
		"bodies": [
			{"id": "sun", "name": "Sun", "kind": "planet", "longitude": 382.0, "speed": 0.98},
			{"id": "mercury", "name": "Mercury", "kind": "planet", "longitude": 15.0, "speed": -0.3}
		],
		"aspects": [{"from": "sun", "to": "mercury", "kind": "conjunction", "orb": 7}]
	}`

	d, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.Bodies[0].Longitude != 22 {
		t.Errorf("longitude not normalized: %v", d.Bodies[0].Longitude)
	}
	if !d.Time.Equal(time.Date(1990, 4, 12, 8, 30, 0, 0, time.UTC)) {
		t.Errorf("time = %v", d.Time)
	}

	var buf bytes.Buffer
	WriteSummary(&buf, d)
	out := buf.String()
	for _, want := range []string{"Ada", "London", "Sun", "22°00' Ari", "H10", "R", "☌"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	var js bytes.Buffer
	if err := d.WriteJSON(&js); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(js.String(), `"house_system": "equal"`) {
		t.Errorf("json output missing house system: %s", js.String())
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode(strings.NewReader("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
