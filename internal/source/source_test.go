package source

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/imgprint-cli/internal/canvas"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func TestDecodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, gradient(32, 16)); err != nil {
		t.Fatal(err)
	}
	img, err := DecodePNG(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
		t.Errorf("bounds = %v", b)
	}
}

func TestDecodeJPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, gradient(24, 24), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}
	img, err := DecodeJPEG(&buf)
	if err != nil {
		t.Fatal(err)
	}
	info := Describe(img)
	if info.Width != 24 || info.Height != 24 || info.ColorSpace != canvas.DeviceRGB || info.Components != 3 {
		t.Errorf("info = %+v", info)
	}
	if info.HasAlpha {
		t.Error("jpeg reported alpha")
	}
}

func TestDecode_Errors(t *testing.T) {
	garbage := []byte("definitely not an image")
	if _, err := DecodeJPEG(bytes.NewReader(garbage)); !errors.Is(err, ErrDecode) {
		t.Errorf("jpeg: err = %v", err)
	}
	if _, err := DecodePNG(bytes.NewReader(garbage)); !errors.Is(err, ErrDecode) {
		t.Errorf("png: err = %v", err)
	}
	if _, _, err := DecodeBytes(garbage); !errors.Is(err, ErrDecode) {
		t.Errorf("sniffed: err = %v", err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "g.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 5, 7))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	img, format, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if format != "png" {
		t.Errorf("format = %q", format)
	}
	if info := Describe(img); info.ColorSpace != canvas.DeviceGray || info.Components != 1 {
		t.Errorf("info = %+v", info)
	}

	if _, _, err := Open(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("missing file opened")
	}
}

func TestHasAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	if HasAlpha(img) {
		t.Error("opaque image reported as having alpha")
	}
	img.Pix[3] = 128
	if !HasAlpha(img) {
		t.Error("transparent pixel not detected")
	}
	if HasAlpha(image.NewYCbCr(image.Rect(0, 0, 8, 8), image.YCbCrSubsampleRatio420)) {
		t.Error("YCbCr should never report alpha")
	}
	if HasAlpha(image.NewGray(image.Rect(0, 0, 8, 8))) {
		t.Error("Gray should never report alpha")
	}
}
