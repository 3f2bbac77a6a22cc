// Package samples generates the built-in images offered by "open from list".
package samples

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/klippa-app/hsi-cli/colormodel"
	"github.com/klippa-app/hsi-cli/pixel"
)

// Size of every generated sample.
const (
	Width  = 512
	Height = 256
)

// Sample is a named image generator.
type Sample struct {
	Name     string
	Title    string
	generate func(b *pixel.Buffer)
}

// Generate renders the sample into a new buffer.
func (s Sample) Generate() *pixel.Buffer {
	b := pixel.New(Width, Height)
	s.generate(b)
	return b
}

var registry = map[string]Sample{}

func register(name, title string, fn func(b *pixel.Buffer)) {
	registry[name] = Sample{Name: name, Title: title, generate: fn}
}

func init() {
	register("color-bars", "Color Bars (RGB)", rgbBars)
	register("color-bars-10", "Color Bars (10 Color)", tenBars)
	register("color-circle", "Color Circle", colorCircle)
	register("spectrum", "Visible Spectrum", spectrum)
	register("grey-ramp", "Grey Ramp", greyRamp)
}

// List returns every sample sorted by name.
func List() []Sample {
	list := make([]Sample, 0, len(registry))
	for _, s := range registry {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Lookup finds a sample by name or title, ignoring case.
func Lookup(name string) (Sample, error) {
	if s, ok := registry[strings.ToLower(name)]; ok {
		return s, nil
	}
	for _, s := range registry {
		if strings.EqualFold(s.Title, name) {
			return s, nil
		}
	}
	return Sample{}, fmt.Errorf("unknown sample %q", name)
}

func bars(b *pixel.Buffer, colors [][3]uint8) {
	w := b.Width()
	for x := 0; x < w; x++ {
		c := colors[x*len(colors)/w]
		for y := 0; y < b.Height(); y++ {
			b.SetRGB(x, y, c[0], c[1], c[2])
		}
	}
}

func rgbBars(b *pixel.Buffer) {
	bars(b, [][3]uint8{
		{255, 0, 0},
		{0, 255, 0},
		{0, 0, 255},
	})
}

func tenBars(b *pixel.Buffer) {
	bars(b, [][3]uint8{
		{255, 255, 255},
		{255, 255, 0},
		{0, 255, 255},
		{0, 255, 0},
		{255, 0, 255},
		{255, 0, 0},
		{0, 0, 255},
		{255, 128, 0},
		{128, 128, 128},
		{0, 0, 0},
	})
}

// colorCircle draws a disc with hue by angle and saturation by radius.
func colorCircle(b *pixel.Buffer) {
	cx, cy := float64(b.Width())/2, float64(b.Height())/2
	radius := math.Min(cx, cy) - 2
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			dx, dy := float64(x)+0.5-cx, cy-float64(y)-0.5
			d := math.Hypot(dx, dy)
			if d > radius {
				continue
			}
			h := math.Atan2(dy, dx) / (2 * math.Pi)
			r, g, bl := colormodel.HSIToRGB(h, d/radius, 1.0/3)
			b.SetRGB(x, y, to8(r), to8(g), to8(bl))
		}
	}
}

// spectrum sweeps the hue circle from red to violet with intensity fading
// out towards the bottom.
func spectrum(b *pixel.Buffer) {
	for x := 0; x < b.Width(); x++ {
		h := 0.75 * float64(x) / float64(b.Width())
		for y := 0; y < b.Height(); y++ {
			i := (1.0 / 3) * (1 - float64(y)/float64(b.Height()))
			r, g, bl := colormodel.HSIToRGB(h, 1, i)
			b.SetRGB(x, y, to8(r), to8(g), to8(bl))
		}
	}
}

func greyRamp(b *pixel.Buffer) {
	for x := 0; x < b.Width(); x++ {
		v := uint8(x * 256 / b.Width())
		for y := 0; y < b.Height(); y++ {
			b.SetRGB(x, y, v, v, v)
		}
	}
}

func to8(v float64) uint8 {
	return pixel.ClampUint8(math.Round(colormodel.Clamp01(v) * 255))
}
