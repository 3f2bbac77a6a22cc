package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/klippa-app/hsi-cli/pixel"
)

func gradient() *pixel.Buffer {
	b := pixel.New(16, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			b.SetRGB(x, y, uint8(x*16), uint8(y*32), 77)
		}
	}
	return b
}

func TestPNGRoundTrip(t *testing.T) {
	for _, level := range []int{0, 3, 5, 9} {
		var buf bytes.Buffer
		if err := Encode(&buf, gradient(), Options{FileType: FileTypePNG, Compression: level}); err != nil {
			t.Fatalf("level %d: %s", level, err)
		}
		got, err := Decode(&buf)
		if err != nil {
			t.Fatalf("level %d: %s", level, err)
		}
		if !got.Equal(gradient()) {
			t.Errorf("level %d: pixels changed in a lossless round trip", level)
		}
	}
}

func TestDecodeKeepsRGBOrder(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.Set(0, 0, color.RGBA{250, 10, 0, 255})

	var buf bytes.Buffer
	if err := bmp.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}

	got, err := DecodeBytes(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if r, g, b := got.RGB(0, 0); r != 250 || g != 10 || b != 0 {
		t.Errorf("expected (250,10,0), got (%d,%d,%d)", r, g, b)
	}
}

func TestDecodeDropsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{200, 100, 50, 128})

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, _ := got.RGB(0, 0); r < 99 || r > 101 {
		t.Errorf("expected red composited over black near 100, got %d", r)
	}
}

func TestJPEGEncode(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, pixel.NewFlat(128), Options{FileType: FileTypeJPEG, JPEGQuality: 90}); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Width() != pixel.FlatWidth || got.Height() != pixel.FlatHeight {
		t.Errorf("unexpected size %dx%d", got.Width(), got.Height())
	}
	if r, _, _ := got.RGB(10, 10); r < 125 || r > 131 {
		t.Errorf("expected grey near 128, got %d", r)
	}
}

func TestEncodeUnknownType(t *testing.T) {
	var encodeErr *EncodeError
	err := Encode(&bytes.Buffer{}, gradient(), Options{FileType: "gif"})
	if !errors.As(err, &encodeErr) {
		t.Errorf("expected EncodeError, got %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	var decodeErr *DecodeError

	_, err := DecodeBytes([]byte("definitely not an image"))
	if !errors.As(err, &decodeErr) {
		t.Errorf("expected DecodeError, got %v", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.png")
	_, err = DecodeFile(missing)
	if !errors.As(err, &decodeErr) || decodeErr.Source != missing {
		t.Errorf("expected DecodeError for %s, got %v", missing, err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected the not-exist cause to be kept, got %v", err)
	}

	corrupt := filepath.Join(t.TempDir(), "corrupt.png")
	if err := os.WriteFile(corrupt, []byte("\x89PNG\r\n\x1a\ngarbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = DecodeFile(corrupt)
	if !errors.As(err, &decodeErr) || decodeErr.Source != corrupt {
		t.Errorf("expected DecodeError for %s, got %v", corrupt, err)
	}
}

func TestEncodeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")

	if err := EncodeFile(path, gradient(), DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	got, err := DecodeFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(gradient()) {
		t.Error("written file does not match the buffer")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the output file, found %d entries", len(entries))
	}
}

func TestEncodeFileLeavesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")

	var encodeErr *EncodeError
	err := EncodeFile(path, gradient(), Options{FileType: "tga"})
	if !errors.As(err, &encodeErr) || encodeErr.Path != path {
		t.Fatalf("expected EncodeError for %s, got %v", path, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected an empty directory, found %d entries", len(entries))
	}

	err = EncodeFile(filepath.Join(dir, "no", "such", "dir.png"), gradient(), DefaultOptions())
	if !errors.As(err, &encodeErr) {
		t.Errorf("expected EncodeError for an unwritable path, got %v", err)
	}
}

func TestFileTypeFromPath(t *testing.T) {
	tests := map[string]string{
		"a.png":       FileTypePNG,
		"a.JPG":       FileTypeJPEG,
		"a.jpeg":      FileTypeJPEG,
		"noextension": FileTypePNG,
	}
	for in, want := range tests {
		if got := FileTypeFromPath(in); got != want {
			t.Errorf("%s: expected %s, got %s", in, want, got)
		}
	}
}

func TestIsPDF(t *testing.T) {
	if !IsPDF([]byte("%PDF-1.7\n")) || IsPDF([]byte("\x89PNG")) {
		t.Error("unexpected PDF detection")
	}
}
