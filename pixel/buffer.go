// Package pixel implements the 8-bit RGB pixel buffer shared by the decoder,
// the channel adjuster and the encoders.
package pixel

import (
	"image"
	"image/color"
	"image/draw"
)

// Size of the synthetic flat image.
const (
	FlatWidth  = 512
	FlatHeight = 256
)

// Buffer is an in-memory image whose At method returns color.RGBA values.
// Pixels are stored in B, G, R order, the layout of the native decoders, but
// every accessor speaks R, G, B.
type Buffer struct {
	// Pix holds the image's pixels, in B, G, R order. The pixel at
	// (x, y) starts at Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*3].
	Pix []uint8
	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
	// Rect is the image's bounds.
	Rect image.Rectangle
}

// New returns a black buffer of the given size. Negative sizes are treated as
// zero.
func New(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		Pix:    make([]uint8, width*height*3),
		Stride: width * 3,
		Rect:   image.Rect(0, 0, width, height),
	}
}

// NewFlat returns a FlatWidth x FlatHeight buffer with every channel set to
// intensity, clamped into [0,255].
func NewFlat(intensity int) *Buffer {
	b := New(FlatWidth, FlatHeight)
	v := ClampUint8(float64(intensity))
	b.Fill(v, v, v)
	return b
}

// FromImage copies any image into a new Buffer. Alpha is dropped, which
// leaves premultiplied colours composited over black.
func FromImage(src image.Image) *Buffer {
	r := src.Bounds()

	switch s := src.(type) {
	case *Buffer:
		return s.Clone()
	case *image.RGBA:
		b := New(r.Dx(), r.Dy())
		for y := 0; y < r.Dy(); y++ {
			si := s.PixOffset(r.Min.X, r.Min.Y+y)
			di := y * b.Stride
			for x := 0; x < r.Dx(); x++ {
				p := s.Pix[si : si+4 : si+4]
				b.Pix[di+0] = p[2]
				b.Pix[di+1] = p[1]
				b.Pix[di+2] = p[0]
				si += 4
				di += 3
			}
		}
		return b
	}

	rgba := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(rgba, rgba.Rect, src, r.Min, draw.Src)
	return FromImage(rgba)
}

func (p *Buffer) ColorModel() color.Model { return color.RGBAModel }

func (p *Buffer) Bounds() image.Rectangle { return p.Rect }

func (p *Buffer) At(x, y int) color.Color {
	return p.RGBAAt(x, y)
}

func (p *Buffer) RGBAAt(x, y int) color.RGBA {
	if !(image.Point{x, y}.In(p.Rect)) {
		return color.RGBA{}
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3] // Small cap improves performance, see https://golang.org/issue/27857
	return color.RGBA{s[2], s[1], s[0], 255}
}

// Set implements draw.Image so the buffer can be a draw target.
func (p *Buffer) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	p.SetRGB(x, y, rgba.R, rgba.G, rgba.B)
}

// PixOffset returns the index of the first element of Pix that corresponds to
// the pixel at (x, y).
func (p *Buffer) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*3
}

// Width returns the number of columns.
func (p *Buffer) Width() int { return p.Rect.Dx() }

// Height returns the number of rows.
func (p *Buffer) Height() int { return p.Rect.Dy() }

// Len returns the number of RGB triples.
func (p *Buffer) Len() int { return p.Rect.Dx() * p.Rect.Dy() }

// RGB returns the pixel at (x, y). Out of bounds reads are black.
func (p *Buffer) RGB(x, y int) (r, g, b uint8) {
	c := p.RGBAAt(x, y)
	return c.R, c.G, c.B
}

// SetRGB stores a pixel; out of bounds writes are ignored.
func (p *Buffer) SetRGB(x, y int, r, g, b uint8) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3]
	s[0], s[1], s[2] = b, g, r
}

// Fill sets every pixel to the same colour.
func (p *Buffer) Fill(r, g, b uint8) {
	for y := p.Rect.Min.Y; y < p.Rect.Max.Y; y++ {
		i := p.PixOffset(p.Rect.Min.X, y)
		for x := 0; x < p.Rect.Dx(); x++ {
			p.Pix[i+0], p.Pix[i+1], p.Pix[i+2] = b, g, r
			i += 3
		}
	}
}

// Clone returns a compact deep copy whose bounds start at the origin.
func (p *Buffer) Clone() *Buffer {
	c := New(p.Rect.Dx(), p.Rect.Dy())
	rowLen := p.Rect.Dx() * 3
	for y := 0; y < p.Rect.Dy(); y++ {
		si := p.PixOffset(p.Rect.Min.X, p.Rect.Min.Y+y)
		copy(c.Pix[y*c.Stride:y*c.Stride+rowLen], p.Pix[si:si+rowLen])
	}
	return c
}

// Equal reports whether two buffers have the same size and pixels.
func (p *Buffer) Equal(o *Buffer) bool {
	if p == nil || o == nil {
		return p == o
	}
	if p.Rect.Dx() != o.Rect.Dx() || p.Rect.Dy() != o.Rect.Dy() {
		return false
	}
	for y := 0; y < p.Rect.Dy(); y++ {
		for x := 0; x < p.Rect.Dx(); x++ {
			if p.RGBAAt(p.Rect.Min.X+x, p.Rect.Min.Y+y) != o.RGBAAt(o.Rect.Min.X+x, o.Rect.Min.Y+y) {
				return false
			}
		}
	}
	return true
}

// Mean returns the average of each channel in [0,255].
func (p *Buffer) Mean() (r, g, b float64) {
	n := p.Len()
	if n == 0 {
		return 0, 0, 0
	}
	var sr, sg, sb uint64
	for y := p.Rect.Min.Y; y < p.Rect.Max.Y; y++ {
		i := p.PixOffset(p.Rect.Min.X, y)
		for x := 0; x < p.Rect.Dx(); x++ {
			sb += uint64(p.Pix[i+0])
			sg += uint64(p.Pix[i+1])
			sr += uint64(p.Pix[i+2])
			i += 3
		}
	}
	return float64(sr) / float64(n), float64(sg) / float64(n), float64(sb) / float64(n)
}

// ClampUint8 saturates v into [0,255] and truncates toward zero. NaN maps
// to 0.
func ClampUint8(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
