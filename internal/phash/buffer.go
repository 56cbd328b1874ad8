package phash

import (
	"fmt"
	"image"

	"github.com/AnyUserName/imgprint-cli/internal/canvas"
)

// PixelBuffer is a tightly packed bitmap produced by one pipeline stage
// and consumed by the next. It is never mutated after creation.
type PixelBuffer struct {
	Width              int
	Height             int
	ComponentsPerPixel int
	BitsPerComponent   int
	ColorSpace         canvas.ColorSpace
	Pix                []byte
}

// ExpectedLen is the byte length implied by the buffer's geometry.
func (b *PixelBuffer) ExpectedLen() int {
	return b.Width * b.Height * b.ComponentsPerPixel * b.BitsPerComponent / 8
}

// Valid reports whether len(Pix) matches the geometry.
func (b *PixelBuffer) Valid() bool {
	return b != nil && b.Width > 0 && b.Height > 0 && len(b.Pix) == b.ExpectedLen()
}

// IsGray reports whether b is an 8-bit single-channel buffer.
func (b *PixelBuffer) IsGray() bool {
	return b.ComponentsPerPixel == 1 && b.BitsPerComponent == 8
}

// Image returns a read-only view of a grayscale buffer for drawing.
// It returns nil for any other layout.
func (b *PixelBuffer) Image() image.Image {
	if !b.IsGray() || !b.Valid() {
		return nil
	}
	return &image.Gray{Pix: b.Pix, Stride: b.Width, Rect: image.Rect(0, 0, b.Width, b.Height)}
}

func (b *PixelBuffer) String() string {
	return fmt.Sprintf("%dx%d %s %d×%dbpc (%d bytes)",
		b.Width, b.Height, b.ColorSpace, b.ComponentsPerPixel, b.BitsPerComponent, len(b.Pix))
}
