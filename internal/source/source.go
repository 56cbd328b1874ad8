// Package source decodes compressed images into image.Image values for
// the fingerprint pipeline.
package source

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/AnyUserName/imgprint-cli/internal/canvas"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrDecode wraps every malformed or unsupported input.
var ErrDecode = errors.New("source: decode failed")

// DecodeJPEG decodes a JPEG stream.
func DecodeJPEG(r io.Reader) (image.Image, error) {
	img, err := jpeg.Decode(r)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "jpeg: %v", err)
	}
	return img, nil
}

// DecodePNG decodes a PNG stream.
func DecodePNG(r io.Reader) (image.Image, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "png: %v", err)
	}
	return img, nil
}

// Decode sniffs the format and decodes any registered image type
// (jpeg, png, gif, bmp, tiff, webp). It returns the format name.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", errors.Wrapf(ErrDecode, "%v", err)
	}
	return img, format, nil
}

// DecodeBytes is Decode over an in-memory file.
func DecodeBytes(data []byte) (image.Image, string, error) {
	return Decode(bytes.NewReader(data))
}

// Open reads and decodes the image file at path.
func Open(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", errors.Wrap(err, "open")
	}
	defer f.Close()

	img, format, err := Decode(f)
	if err != nil {
		return nil, "", errors.WithMessage(err, path)
	}
	return img, format, nil
}

// Info summarizes a decoded image.
type Info struct {
	Width      int
	Height     int
	Components int
	ColorSpace canvas.ColorSpace
	HasAlpha   bool
}

// Describe reports the geometry and color model of img.
func Describe(img image.Image) Info {
	b := img.Bounds()
	cs, n := canvas.ModelOf(img)
	return Info{
		Width:      b.Dx(),
		Height:     b.Dy(),
		Components: n,
		ColorSpace: cs,
		HasAlpha:   HasAlpha(img),
	}
}

// HasAlpha reports whether any pixel of img is not fully opaque.
func HasAlpha(img image.Image) bool {
	switch src := img.(type) {
	case *image.NRGBA:
		for i := 3; i < len(src.Pix); i += 4 {
			if src.Pix[i] < 255 {
				return true
			}
		}
		return false
	case *image.RGBA:
		for i := 3; i < len(src.Pix); i += 4 {
			if src.Pix[i] < 255 {
				return true
			}
		}
		return false
	case *image.YCbCr, *image.Gray, *image.Gray16, *image.CMYK:
		return false
	default:
		bounds := img.Bounds()
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				_, _, _, a := img.At(x, y).RGBA()
				if a < 0xffff {
					return true
				}
			}
		}
		return false
	}
}
