// Package slider keeps the RGB and HSI slider positions consistent with each
// other and with the adjusted output image.
package slider

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/klippa-app/hsi-cli/adjust"
	"github.com/klippa-app/hsi-cli/colormodel"
)

// Slider identifies one of the six controls.
type Slider int

const (
	Red Slider = iota
	Green
	Blue
	Hue
	Saturation
	Intensity
)

// NumSliders is the number of controls.
const NumSliders = 6

var sliderNames = [NumSliders]string{"red", "green", "blue", "hue", "saturation", "intensity"}

func (s Slider) String() string {
	if s.Valid() {
		return sliderNames[s]
	}
	return fmt.Sprintf("Slider(%d)", int(s))
}

// Valid reports whether s names one of the six controls.
func (s Slider) Valid() bool {
	return s >= Red && s <= Intensity
}

// Group returns the group the slider belongs to.
func (s Slider) Group() Group {
	switch {
	case s >= Red && s <= Blue:
		return RGBDriving
	case s >= Hue && s <= Intensity:
		return HSIDriving
	}
	return NoneDriving
}

// channel maps an RGB slider onto the adjuster's channel.
func (s Slider) channel() adjust.Channel {
	return adjust.Channel(s - Red)
}

// ParseSlider accepts a full slider name or its first letter, in any case.
func ParseSlider(name string) (Slider, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range sliderNames {
		if name == n || (len(name) == 1 && name[0] == n[0]) {
			return Slider(i), nil
		}
	}
	return 0, fmt.Errorf("unknown slider %q, expected one of %s", name, strings.Join(sliderNames[:], ", "))
}

// Group says which set of sliders holds the authoritative values.
type Group int

const (
	NoneDriving Group = iota
	RGBDriving
	HSIDriving
)

func (g Group) String() string {
	switch g {
	case RGBDriving:
		return "rgb"
	case HSIDriving:
		return "hsi"
	}
	return "none"
}

// Range is the inclusive range of a slider.
type Range struct {
	Min, Max int
}

// Clamp limits v to the range.
func (r Range) Clamp(v int) int {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// ErrInvalidRange is returned for ranges with a negative minimum or a
// maximum that is not above the minimum.
var ErrInvalidRange = errors.New("invalid slider range")

func (r Range) validate() error {
	if r.Min < 0 || r.Max <= r.Min {
		return fmt.Errorf("%w [%d,%d]", ErrInvalidRange, r.Min, r.Max)
	}
	return nil
}

// Default ranges of the original tool: 8-bit RGB sliders and percent HSI
// sliders.
var (
	DefaultRGBRange = Range{Min: 0, Max: 255}
	DefaultHSIRange = Range{Min: 0, Max: 100}
)

// State holds the six slider positions and their ranges. It is a plain
// value; copies are independent.
type State struct {
	values [NumSliders]int
	ranges [NumSliders]Range
}

// NewState returns a state with the given ranges and every slider at its
// maximum.
func NewState(rgb, hsi Range) (State, error) {
	if err := rgb.validate(); err != nil {
		return State{}, fmt.Errorf("rgb sliders: %w", err)
	}
	if err := hsi.validate(); err != nil {
		return State{}, fmt.Errorf("hsi sliders: %w", err)
	}

	var s State
	for sl := Red; sl <= Intensity; sl++ {
		r := rgb
		if sl.Group() == HSIDriving {
			r = hsi
		}
		s.ranges[sl] = r
		s.values[sl] = r.Max
	}
	return s, nil
}

// DefaultState returns a state with the default ranges.
func DefaultState() State {
	s, _ := NewState(DefaultRGBRange, DefaultHSIRange)
	return s
}

// Value returns the position of sl, or 0 for an invalid slider.
func (s State) Value(sl Slider) int {
	if !sl.Valid() {
		return 0
	}
	return s.values[sl]
}

// Range returns the range of sl.
func (s State) Range(sl Slider) Range {
	if !sl.Valid() {
		return Range{}
	}
	return s.ranges[sl]
}

// Set moves sl to v, clamped into its range, and returns the stored value.
func (s *State) Set(sl Slider, v int) int {
	if !sl.Valid() {
		return 0
	}
	v = s.ranges[sl].Clamp(v)
	s.values[sl] = v
	return v
}

// Fraction returns the position of sl divided by its maximum.
func (s State) Fraction(sl Slider) float64 {
	if !sl.Valid() || s.ranges[sl].Max <= 0 {
		return 0
	}
	return float64(s.values[sl]) / float64(s.ranges[sl].Max)
}

// SetFraction moves sl to f times its maximum, rounded to the nearest
// integer and clamped.
func (s *State) SetFraction(sl Slider, f float64) int {
	if !sl.Valid() {
		return 0
	}
	v := f * float64(s.ranges[sl].Max)
	if math.IsNaN(v) {
		v = 0
	}
	// Keep the conversion to int in range before clamping.
	v = math.Max(math.Min(v, math.MaxInt32), math.MinInt32)
	return s.Set(sl, int(math.Round(v)))
}

// RGBFractions returns the red, green and blue fractions.
func (s State) RGBFractions() (r, g, b float64) {
	return s.Fraction(Red), s.Fraction(Green), s.Fraction(Blue)
}

// HSIFractions returns the hue, saturation and intensity fractions.
func (s State) HSIFractions() (h, sat, i float64) {
	return s.Fraction(Hue), s.Fraction(Saturation), s.Fraction(Intensity)
}

// Scales returns the RGB fractions as channel scales.
func (s State) Scales() adjust.Scales {
	r, g, b := s.RGBFractions()
	return adjust.Scales{adjust.Red: r, adjust.Green: g, adjust.Blue: b}
}

// WithHSIFromRGB returns a copy of s whose HSI sliders are derived from the
// RGB slider fractions.
func (s State) WithHSIFromRGB() State {
	h, sat, i := colormodel.RGBToHSI(s.RGBFractions())
	s.SetFraction(Hue, h)
	s.SetFraction(Saturation, sat)
	s.SetFraction(Intensity, i)
	return s
}

// WithRGBFromHSI returns a copy of s whose RGB sliders are derived from the
// HSI slider fractions.
func (s State) WithRGBFromHSI() State {
	r, g, b := colormodel.HSIToRGB(s.HSIFractions())
	s.SetFraction(Red, colormodel.Clamp01(r))
	s.SetFraction(Green, colormodel.Clamp01(g))
	s.SetFraction(Blue, colormodel.Clamp01(b))
	return s
}

// String formats the state like the status bar does.
func (s State) String() string {
	return fmt.Sprintf("RGB: [ %d, %d, %d ]\t>>\tHSI: [ %d, %d, %d ]",
		s.values[Red], s.values[Green], s.values[Blue],
		s.values[Hue], s.values[Saturation], s.values[Intensity])
}
