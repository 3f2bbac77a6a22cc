// Package display shows pixel buffers on a 24-bit colour terminal.
package display

import (
	"bufio"
	"fmt"
	"image"
	"io"

	xdraw "golang.org/x/image/draw"
)

// DefaultColumns is the preview width used when none is configured.
const DefaultColumns = 64

// Terminal renders images as rows of upper half blocks: the foreground colour
// paints the top pixel and the background colour the bottom one.
type Terminal struct {
	w       io.Writer
	columns int
	scaler  xdraw.Scaler
}

// NewTerminal returns a Terminal writing to w that scales every image to at
// most columns characters wide.
func NewTerminal(w io.Writer, columns int) *Terminal {
	if columns <= 0 {
		columns = DefaultColumns
	}
	return &Terminal{w: w, columns: columns, scaler: xdraw.ApproxBiLinear}
}

// Fit returns the pixel size of the preview for an image of size src: at
// most columns wide, aspect ratio kept, height rounded up to whole text rows.
func Fit(src image.Rectangle, columns int) image.Rectangle {
	w, h := src.Dx(), src.Dy()
	if w <= 0 || h <= 0 || columns <= 0 {
		return image.Rectangle{}
	}
	if w > columns {
		h = (h*columns + w - 1) / w
		w = columns
	}
	if h < 1 {
		h = 1
	}
	h += h % 2
	return image.Rect(0, 0, w, h)
}

// Render draws img. Images of any size are accepted; each call computes its
// own preview size, so consecutive images may differ in size.
func (t *Terminal) Render(img image.Image) error {
	r := Fit(img.Bounds(), t.columns)
	if r.Empty() {
		_, err := fmt.Fprintln(t.w, "(empty image)")
		return err
	}

	dst := image.NewRGBA(r)
	if r.Size() == img.Bounds().Size() {
		xdraw.Draw(dst, r, img, img.Bounds().Min, xdraw.Src)
	} else {
		t.scaler.Scale(dst, r, img, img.Bounds(), xdraw.Src, nil)
	}

	bw := bufio.NewWriter(t.w)
	for y := 0; y < r.Dy(); y += 2 {
		for x := 0; x < r.Dx(); x++ {
			top := dst.RGBAAt(x, y)
			bottom := dst.RGBAAt(x, y+1)
			fmt.Fprintf(bw, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, bottom.R, bottom.G, bottom.B)
		}
		bw.WriteString("\x1b[0m\n")
	}
	return bw.Flush()
}

// Clear prints a placeholder for an empty view.
func (t *Terminal) Clear(title string) error {
	_, err := fmt.Fprintf(t.w, "[%s cleared]\n", title)
	return err
}

// Readout formats a slider value the way a three digit LCD shows it.
func Readout(v int) string {
	return fmt.Sprintf("%3d", v)
}
