// Package colormodel converts between normalized RGB and HSI triples.
//
// All values are float64 in [0,1]. Hue is an angle normalized so that 1
// corresponds to a full turn; it always wraps into [0,1).
package colormodel

import "math"

const (
	twoPi      = 2 * math.Pi
	sectorSize = twoPi / 3 // 120°
	halfSector = sectorSize / 2
)

// Clamp01 limits v to [0,1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// wrapHue folds a normalized hue into [0,1).
func wrapHue(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	h = math.Mod(h, 1)
	if h < 0 {
		h++
	}
	if h >= 1 {
		h = 0
	}
	return h
}

// RGBToHSI converts a normalized RGB triple into hue, saturation and
// intensity. Inputs are clamped to [0,1] first.
//
// On the achromatic line (R=G=B) hue is undefined and reported as 0; black
// has saturation 0.
func RGBToHSI(r, g, b float64) (h, s, i float64) {
	r, g, b = Clamp01(r), Clamp01(g), Clamp01(b)

	sum := r + g + b
	i = sum / 3

	if sum > 0 {
		s = 1 - 3*math.Min(r, math.Min(g, b))/sum
		if s < 0 {
			s = 0
		}
	}

	num := 0.5 * ((r - g) + (r - b))
	den := math.Sqrt((r-g)*(r-g) + (r-b)*(g-b))
	if den == 0 {
		return 0, s, i
	}

	// acos is NaN outside [-1,1]; rounding can push the ratio just past it.
	theta := math.Acos(math.Max(-1, math.Min(1, num/den)))
	if b <= g {
		h = theta
	} else {
		h = twoPi - theta
	}
	return wrapHue(h / twoPi), s, i
}

// HSIToRGB converts hue, saturation and intensity back into RGB. The result
// is not clamped: values may leave [0,1] slightly through rounding, or
// substantially for HSI triples that have no RGB counterpart. Clamp before
// quantizing.
func HSIToRGB(h, s, i float64) (r, g, b float64) {
	angle := wrapHue(h) * twoPi

	switch {
	case angle < sectorSize:
		b = i * (1 - s)
		r = i * (1 + s*math.Cos(angle)/math.Cos(halfSector-angle))
		g = 3*i - (r + b)
	case angle < 2*sectorSize:
		angle -= sectorSize
		r = i * (1 - s)
		g = i * (1 + s*math.Cos(angle)/math.Cos(halfSector-angle))
		b = 3*i - (r + g)
	default:
		angle -= 2 * sectorSize
		g = i * (1 - s)
		b = i * (1 + s*math.Cos(angle)/math.Cos(halfSector-angle))
		r = 3*i - (g + b)
	}
	return r, g, b
}
