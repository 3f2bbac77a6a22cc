// Package imageio decodes image files into pixel buffers and encodes pixel
// buffers back to PNG or JPEG.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/klippa-app/hsi-cli/internal/logging"
	"github.com/klippa-app/hsi-cli/pixel"
)

// DecodeError is returned when an image cannot be read or decoded.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Source == "" {
		return "could not decode image: " + e.Err.Error()
	}
	return fmt.Sprintf("could not decode image %s: %s", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ErrEmptyImage is returned for images without pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// pdfMagic starts every PDF file.
var pdfMagic = []byte("%PDF-")

// IsPDF reports whether data looks like a PDF document.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// Decode reads one image from r. Any registered format is accepted: PNG,
// JPEG, GIF, BMP, TIFF and WebP. The result is always in RGB order; alpha is
// dropped.
func Decode(r io.Reader) (*pixel.Buffer, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if img.Bounds().Empty() {
		return nil, &DecodeError{Err: ErrEmptyImage}
	}

	logging.Logger().Debug("decoded image", "format", format, "bounds", img.Bounds())
	return pixel.FromImage(img), nil
}

// DecodeBytes decodes an in-memory image.
func DecodeBytes(data []byte) (*pixel.Buffer, error) {
	return Decode(bytes.NewReader(data))
}

// DecodeFile reads and decodes the file at path.
func DecodeFile(path string) (*pixel.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}
	defer f.Close()

	b, err := Decode(f)
	if err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			decodeErr.Source = path
		}
		return nil, err
	}
	return b, nil
}
