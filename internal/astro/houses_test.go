package astro

import (
	"math"
	"testing"
)

func TestEqualCusps(t *testing.T) {
	cusps := EqualCusps(345)
	if cusps[0] != 345 {
		t.Errorf("cusp 1 = %v, want 345", cusps[0])
	}
	if cusps[1] != 15 {
		t.Errorf("cusp 2 = %v, want 15 (wrapped)", cusps[1])
	}
	for i := 0; i < 12; i++ {
		next := cusps[(i+1)%12]
		if angleDiff(next, cusps[i]) != 30 {
			t.Errorf("cusp %d to %d spacing = %v", i+1, (i+1)%12+1, angleDiff(next, cusps[i]))
		}
	}
}

func TestWholeSignCusps(t *testing.T) {
	cusps := WholeSignCusps(107.5)
	want := [12]float64{90, 120, 150, 180, 210, 240, 270, 300, 330, 0, 30, 60}
	if cusps != want {
		t.Errorf("WholeSignCusps(107.5) = %v, want %v", cusps, want)
	}
}

func TestPorphyryCusps(t *testing.T) {
	asc, mc := 100.0, 10.0
	cusps := PorphyryCusps(asc, mc)

	if cusps[0] != asc || cusps[9] != mc {
		t.Fatalf("angles not preserved: %v", cusps)
	}
	if cusps[3] != 190 || cusps[6] != 280 {
		t.Errorf("IC/DSC = %v/%v, want 190/280", cusps[3], cusps[6])
	}

	// Quadrant asc->ic is 90°, so cusps 2 and 3 sit 30° apart.
	if math.Abs(cusps[1]-130) > 1e-9 || math.Abs(cusps[2]-160) > 1e-9 {
		t.Errorf("cusps 2,3 = %v,%v", cusps[1], cusps[2])
	}

	// Unequal quadrants: mc->asc spans 90°, asc at 120 makes it 110°.
	cusps = PorphyryCusps(120, 10)
	if math.Abs(cusps[10]-(10+110.0/3)) > 1e-9 {
		t.Errorf("cusp 11 = %v, want %v", cusps[10], 10+110.0/3)
	}
}
