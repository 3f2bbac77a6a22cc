package colormodel

import (
	"math"
	"testing"
)

const tolerance = 1e-6

func near(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestRGBToHSI(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		h, s, i float64
	}{
		{"pure red", 1, 0, 0, 0, 1, 1.0 / 3},
		{"pure green", 0, 1, 0, 1.0 / 3, 1, 1.0 / 3},
		{"pure blue", 0, 0, 1, 2.0 / 3, 1, 1.0 / 3},
		{"yellow", 1, 1, 0, 1.0 / 6, 1, 2.0 / 3},
		{"magenta", 1, 0, 1, 5.0 / 6, 1, 2.0 / 3},
		{"white", 1, 1, 1, 0, 0, 1},
		{"black", 0, 0, 0, 0, 0, 0},
		{"grey", 0.5, 0.5, 0.5, 0, 0, 0.5},
		{"out of range input is clamped", 2, -1, 0, 0, 1, 1.0 / 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, i := RGBToHSI(tt.r, tt.g, tt.b)
			if !near(h, tt.h) || !near(s, tt.s) || !near(i, tt.i) {
				t.Errorf("expected (%v,%v,%v), got (%v,%v,%v)", tt.h, tt.s, tt.i, h, s, i)
			}
		})
	}
}

func TestRGBToHSIRanges(t *testing.T) {
	for r := 0.0; r <= 1.0; r += 0.05 {
		for g := 0.0; g <= 1.0; g += 0.05 {
			for b := 0.0; b <= 1.0; b += 0.05 {
				h, s, i := RGBToHSI(r, g, b)
				if math.IsNaN(h) || math.IsNaN(s) || math.IsNaN(i) {
					t.Fatalf("NaN for (%v,%v,%v)", r, g, b)
				}
				if h < 0 || h >= 1 || s < 0 || s > 1 || i < 0 || i > 1 {
					t.Fatalf("out of range (%v,%v,%v) for (%v,%v,%v)", h, s, i, r, g, b)
				}
			}
		}
	}
}

func TestRGBToHSINearAchromatic(t *testing.T) {
	// Denominators this small push num/den past ±1 without the clamp.
	inputs := [][3]float64{
		{0.3, 0.3, 0.3 + 1e-17},
		{0.7, 0.7 - 1e-16, 0.7},
		{1, 1, 1 - 1e-15},
	}
	for _, in := range inputs {
		h, s, i := RGBToHSI(in[0], in[1], in[2])
		if math.IsNaN(h) || math.IsNaN(s) || math.IsNaN(i) {
			t.Errorf("NaN for %v: (%v,%v,%v)", in, h, s, i)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for r := 0.0; r <= 1.0; r += 0.1 {
		for g := 0.0; g <= 1.0; g += 0.1 {
			for b := 0.0; b <= 1.0; b += 0.1 {
				if math.Max(r, math.Max(g, b))-math.Min(r, math.Min(g, b)) < 0.05 {
					continue
				}
				r2, g2, b2 := HSIToRGB(RGBToHSI(r, g, b))
				if !near(r, r2) || !near(g, g2) || !near(b, b2) {
					t.Errorf("round trip of (%v,%v,%v) gave (%v,%v,%v)", r, g, b, r2, g2, b2)
				}
			}
		}
	}
}

func TestRoundTripAchromatic(t *testing.T) {
	for _, v := range []float64{0.1, 0.5, 1} {
		r, g, b := HSIToRGB(RGBToHSI(v, v, v))
		if !near(r, v) || !near(g, v) || !near(b, v) {
			t.Errorf("grey %v came back as (%v,%v,%v)", v, r, g, b)
		}
	}
}

func TestHSIToRGBSectors(t *testing.T) {
	tests := []struct {
		name    string
		h, s, i float64
		r, g, b float64
	}{
		{"red", 0, 1, 1.0 / 3, 1, 0, 0},
		{"green", 1.0 / 3, 1, 1.0 / 3, 0, 1, 0},
		{"blue", 2.0 / 3, 1, 1.0 / 3, 0, 0, 1},
		{"full turn wraps to red", 1, 1, 1.0 / 3, 1, 0, 0},
		{"negative hue wraps", -2.0 / 3, 1, 1.0 / 3, 0, 1, 0},
		{"no saturation", 0.42, 0, 0.5, 0.5, 0.5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := HSIToRGB(tt.h, tt.s, tt.i)
			if !near(r, tt.r) || !near(g, tt.g) || !near(b, tt.b) {
				t.Errorf("expected (%v,%v,%v), got (%v,%v,%v)", tt.r, tt.g, tt.b, r, g, b)
			}
		})
	}
}

func TestHSIToRGBMonotonicInIntensity(t *testing.T) {
	for h := 0.0; h < 1; h += 0.07 {
		for s := 0.0; s <= 1; s += 0.25 {
			prev := -1.0
			for i := 0.0; i <= 1; i += 0.1 {
				r, g, b := HSIToRGB(h, s, i)
				avg := (Clamp01(r) + Clamp01(g) + Clamp01(b)) / 3
				if avg < prev-tolerance {
					t.Fatalf("average fell from %v to %v at h=%v s=%v i=%v", prev, avg, h, s, i)
				}
				prev = avg
			}
		}
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{-0.1, 0},
		{math.NaN(), 0},
		{0.25, 0.25},
		{1.0000001, 1},
	}
	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}
