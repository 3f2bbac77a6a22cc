package adjust

import (
	"math"
	"testing"

	"github.com/klippa-app/hsi-cli/pixel"
)

func onePixel(r, g, b uint8) *pixel.Buffer {
	p := pixel.New(1, 1)
	p.SetRGB(0, 0, r, g, b)
	return p
}

func TestApplyScenarios(t *testing.T) {
	tests := []struct {
		name    string
		scales  Scales
		r, g, b uint8
	}{
		{"red saturates", Single(Red, 1.5), 255, 100, 50},
		{"green only", Single(Green, 0.5), 200, 50, 50},
		{"blue only", Single(Blue, 2), 200, 100, 100},
		{"identity", Uniform(1), 200, 100, 50},
		{"half", Uniform(0.5), 100, 50, 25},
		{"zero", Uniform(0), 0, 0, 0},
		{"negative counts as zero", Scales{-1, 1, 1}, 0, 100, 50},
		{"NaN counts as zero", Scales{1, math.NaN(), 1}, 200, 0, 50},
		{"infinite saturates", Scales{math.Inf(1), 1, 1}, 255, 100, 50},
		{"truncates", Scales{1, 1, 0.99}, 200, 100, 49},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Apply(onePixel(200, 100, 50), tt.scales)
			r, g, b := out.RGB(0, 0)
			if r != tt.r || g != tt.g || b != tt.b {
				t.Errorf("expected (%d,%d,%d), got (%d,%d,%d)", tt.r, tt.g, tt.b, r, g, b)
			}
		})
	}
}

func TestApplySaturatesNeverWraps(t *testing.T) {
	for v := 1; v < 256; v++ {
		scale := 255.0 / float64(v)
		out := Apply(onePixel(uint8(v), 0, 0), Single(Red, scale*1.01))
		if r, _, _ := out.RGB(0, 0); r != 255 {
			t.Fatalf("value %d with scale %v: expected 255, got %d", v, scale*1.01, r)
		}
	}
}

func TestApplyDoesNotMutateSource(t *testing.T) {
	src := pixel.NewFlat(120)
	before := src.Clone()

	out := Apply(src, Uniform(2))
	if !src.Equal(before) {
		t.Fatal("source buffer was modified")
	}
	if out == src {
		t.Fatal("expected a new buffer")
	}
	if out.Width() != src.Width() || out.Height() != src.Height() {
		t.Errorf("expected %dx%d, got %dx%d", src.Width(), src.Height(), out.Width(), out.Height())
	}
	if r, g, b := out.RGB(511, 255); r != 240 || g != 240 || b != 240 {
		t.Errorf("expected (240,240,240), got (%d,%d,%d)", r, g, b)
	}
}

func TestApplyEveryRow(t *testing.T) {
	// Tall enough to be split into several bands.
	src := pixel.New(3, 1000)
	for y := 0; y < src.Height(); y++ {
		for x := 0; x < src.Width(); x++ {
			src.SetRGB(x, y, uint8(y%256), uint8(x), 10)
		}
	}

	out := Apply(src, Scales{1, 1, 2})
	for y := 0; y < out.Height(); y++ {
		for x := 0; x < out.Width(); x++ {
			r, g, b := out.RGB(x, y)
			if r != uint8(y%256) || g != uint8(x) || b != 20 {
				t.Fatalf("pixel (%d,%d): got (%d,%d,%d)", x, y, r, g, b)
			}
		}
	}
}

func TestApplyEmpty(t *testing.T) {
	out := Apply(pixel.New(0, 0), Uniform(3))
	if out.Len() != 0 {
		t.Errorf("expected empty buffer, got %d pixels", out.Len())
	}
}

func TestSingle(t *testing.T) {
	if got := Single(Green, 0.25); got != (Scales{1, 0.25, 1}) {
		t.Errorf("expected {1 0.25 1}, got %v", got)
	}
	if got := Single(Channel(7), 0.25); !got.Identity() {
		t.Errorf("invalid channel should give identity, got %v", got)
	}
}

func TestChannelString(t *testing.T) {
	if Red.String() != "red" || Blue.String() != "blue" || Channel(9).String() != "Channel(9)" {
		t.Error("unexpected channel names")
	}
}
