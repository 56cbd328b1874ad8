package encoder

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func thumb() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 9, 8))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 3)
	}
	return img
}

func TestPNGEncoder_Lossless(t *testing.T) {
	src := thumb()
	data, err := (&PNGEncoder{}).Encode(src, 0)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 9; x++ {
			got := color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
			if got != src.GrayAt(x, y).Y {
				t.Fatalf("pixel (%d,%d) = %d, want %d", x, y, got, src.GrayAt(x, y).Y)
			}
		}
	}
}

func TestJPEGEncoder(t *testing.T) {
	data, err := (&JPEGEncoder{}).Encode(thumb(), 500)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 9 || cfg.Height != 8 || cfg.ColorModel != color.GrayModel {
		t.Errorf("config = %+v", cfg)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.png")
	n, err := WriteFile(&PNGEncoder{}, thumb(), 0, path)
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != n {
		t.Errorf("size on disk %d, reported %d", info.Size(), n)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if r.Get("JPG") == nil || r.Get("png") == nil {
		t.Fatal("built-in encoders missing")
	}
	if r.Get("webp") != nil {
		t.Error("webp should not be registered")
	}

	resolved, unknown := r.ResolveFormats([]string{"png", "jpg", "jpeg", "avif"})
	if len(resolved) != 2 || resolved[0] != "png" || resolved[1] != "jpeg" {
		t.Errorf("resolved = %v", resolved)
	}
	if len(unknown) != 1 || unknown[0] != "avif" {
		t.Errorf("unknown = %v", unknown)
	}
	if r.String() != "encoders: png, jpeg" {
		t.Errorf("String = %q", r.String())
	}
}
