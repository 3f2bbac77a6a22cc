// Package adjust scales the colour channels of a pixel buffer.
package adjust

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/klippa-app/hsi-cli/internal/logging"
	"github.com/klippa-app/hsi-cli/pixel"
)

// Channel names a colour channel.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	}
	return fmt.Sprintf("Channel(%d)", int(c))
}

// Valid reports whether c is one of Red, Green or Blue.
func (c Channel) Valid() bool {
	return c >= Red && c <= Blue
}

// storage maps a Channel onto its byte offset inside a B,G,R triple.
var storage = [3]int{Red: 2, Green: 1, Blue: 0}

// Scales holds one multiplicative factor per channel, indexed by Channel.
type Scales [3]float64

// Uniform returns Scales with the same factor on every channel.
func Uniform(scale float64) Scales {
	return Scales{scale, scale, scale}
}

// Single returns Scales that change one channel and leave the others as they
// are. An invalid channel yields the identity.
func Single(c Channel, scale float64) Scales {
	s := Uniform(1)
	if c.Valid() {
		s[c] = scale
	}
	return s
}

// Identity reports whether applying s would leave every pixel unchanged.
func (s Scales) Identity() bool {
	return s == Uniform(1)
}

// minRowsPerBand keeps tiny images on a single goroutine.
const minRowsPerBand = 64

// Apply returns a new buffer of the same size as src in which every channel
// is multiplied by its scale, clamped to [0,255] and truncated. Negative and
// NaN factors count as 0. src is not modified.
func Apply(src *pixel.Buffer, s Scales) *pixel.Buffer {
	dst := pixel.New(src.Width(), src.Height())
	if dst.Len() == 0 {
		return dst
	}

	var lut [3][256]uint8
	for c := Red; c <= Blue; c++ {
		f := s[c]
		if !(f > 0) {
			f = 0
		}
		for v := 0; v < 256; v++ {
			lut[storage[c]][v] = pixel.ClampUint8(float64(v) * f)
		}
	}

	logging.Logger().Debug("applying channel scales",
		"red", s[Red], "green", s[Green], "blue", s[Blue],
		"width", src.Width(), "height", src.Height())

	h := src.Height()
	bands := runtime.GOMAXPROCS(0)
	if limit := (h + minRowsPerBand - 1) / minRowsPerBand; bands > limit {
		bands = limit
	}
	rowsPerBand := int(math.Ceil(float64(h) / float64(bands)))

	var g errgroup.Group
	for start := 0; start < h; start += rowsPerBand {
		start, end := start, start+rowsPerBand
		if end > h {
			end = h
		}
		g.Go(func() error {
			applyRows(dst, src, &lut, start, end)
			return nil
		})
	}
	_ = g.Wait()

	return dst
}

func applyRows(dst, src *pixel.Buffer, lut *[3][256]uint8, start, end int) {
	w := src.Width()
	for y := start; y < end; y++ {
		si := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		di := y * dst.Stride
		for x := 0; x < w; x++ {
			p := src.Pix[si : si+3 : si+3]
			q := dst.Pix[di : di+3 : di+3]
			q[0] = lut[0][p[0]]
			q[1] = lut[1][p[1]]
			q[2] = lut[2][p[2]]
			si += 3
			di += 3
		}
	}
}
