// Package encoder turns images back into compressed files. It is used to
// persist pipeline thumbnails for inspection and never takes part in
// computing a fingerprint.
package encoder

import (
	"image"
	"os"

	"github.com/pkg/errors"
)

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the output format name (e.g. "jpeg", "png").
	Format() string

	// Encode converts the image to bytes at the given quality (1-100).
	// Lossless encoders ignore quality.
	Encode(img image.Image, quality int) ([]byte, error)

	// Extension returns the file extension without dot.
	Extension() string
}

// WriteFile encodes img and writes it to path.
func WriteFile(enc Encoder, img image.Image, quality int, path string) (int64, error) {
	data, err := enc.Encode(img, quality)
	if err != nil {
		return 0, errors.Wrapf(err, "encode %s", enc.Format())
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, errors.Wrap(err, "write")
	}
	return int64(len(data)), nil
}

// growHint sizes the output buffer from the pixel count so small
// thumbnails do not reserve photo-sized buffers.
func growHint(img image.Image, perPixel, ceiling int) int {
	b := img.Bounds()
	n := b.Dx()*b.Dy()*perPixel + 1024
	if n > ceiling {
		return ceiling
	}
	return n
}
