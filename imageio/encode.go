package imageio

import (
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klippa-app/hsi-cli/internal/logging"
	"github.com/klippa-app/hsi-cli/pixel"
)

// Output file types.
const (
	FileTypePNG  = "png"
	FileTypeJPEG = "jpeg"
)

// DefaultCompression is the PNG compression level used when none is given.
const DefaultCompression = 3

// DefaultJPEGQuality is the JPEG quality used when none is given.
const DefaultJPEGQuality = 95

// Options control how a buffer is encoded.
type Options struct {
	// FileType is FileTypePNG (default) or FileTypeJPEG.
	FileType string
	// Compression is the PNG level on the usual 0-9 zlib scale.
	Compression int
	// JPEGQuality ranges from 1 to 100.
	JPEGQuality int
}

// DefaultOptions writes PNG at compression level 3.
func DefaultOptions() Options {
	return Options{
		FileType:    FileTypePNG,
		Compression: DefaultCompression,
		JPEGQuality: DefaultJPEGQuality,
	}
}

// EncodeError is returned when a buffer cannot be encoded or written.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	if e.Path == "" {
		return "could not encode image: " + e.Err.Error()
	}
	return fmt.Sprintf("could not write image %s: %s", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// FileTypeFromPath guesses the output type from the file extension.
func FileTypeFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return FileTypeJPEG
	}
	return FileTypePNG
}

// pngLevel maps a zlib level onto the presets image/png offers.
func pngLevel(level int) png.CompressionLevel {
	switch {
	case level <= 0:
		return png.NoCompression
	case level <= 3:
		return png.BestSpeed
	case level <= 6:
		return png.DefaultCompression
	}
	return png.BestCompression
}

// Encode writes b to w.
func Encode(w io.Writer, b *pixel.Buffer, opts Options) error {
	var err error
	switch opts.FileType {
	case FileTypeJPEG, "jpg":
		quality := opts.JPEGQuality
		if quality <= 0 {
			quality = DefaultJPEGQuality
		}
		err = jpeg.Encode(w, b, &jpeg.Options{Quality: quality})
	case FileTypePNG, "":
		enc := png.Encoder{CompressionLevel: pngLevel(opts.Compression)}
		err = enc.Encode(w, b)
	default:
		err = fmt.Errorf("unsupported file type %q", opts.FileType)
	}
	if err != nil {
		return &EncodeError{Err: err}
	}
	return nil
}

// EncodeFile writes b to path. The image goes to a temporary file in the
// same directory first and is renamed into place, so a failed write leaves
// no partial file behind.
func EncodeFile(path string, b *pixel.Buffer, opts Options) (err error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = Encode(tmp, b, opts); err != nil {
		var encodeErr *EncodeError
		if errors.As(err, &encodeErr) {
			encodeErr.Path = path
		}
		return err
	}
	// CreateTemp uses 0600; match what os.Create would have produced.
	if err = tmp.Chmod(0o644); err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return &EncodeError{Path: path, Err: err}
	}

	logging.Logger().Debug("encoded image", "path", path, "type", opts.FileType, "width", b.Width(), "height", b.Height())
	return nil
}
