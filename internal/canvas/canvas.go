// Package canvas is the rendering backend the fingerprint pipeline draws
// into. A canvas is a fixed-size bitmap surface: the caller creates one,
// renders a source image into it scaled to a target rectangle, reads the
// backing store back and releases it.
//
// Only 8-bit single-channel DeviceGray surfaces can be created. Color
// conversion on an unscaled draw uses ITU-R BT.601 luma (color.GrayModel);
// scaled draws go through the backend's Filter.
package canvas

import (
	"fmt"
	"image"

	"github.com/pkg/errors"
)

var (
	// ErrCreate is returned when the backend cannot allocate a canvas.
	ErrCreate = errors.New("canvas: create failed")

	// ErrReadback is returned when a canvas can no longer be read.
	ErrReadback = errors.New("canvas: readback failed")
)

// ColorSpace identifies the color model of a surface or decoded image.
type ColorSpace int

const (
	ColorSpaceUnknown ColorSpace = iota
	DeviceGray
	DeviceRGB
	DeviceCMYK
)

// Components returns the number of color components (alpha excluded).
func (c ColorSpace) Components() int {
	switch c {
	case DeviceGray:
		return 1
	case DeviceRGB:
		return 3
	case DeviceCMYK:
		return 4
	default:
		return 0
	}
}

func (c ColorSpace) String() string {
	switch c {
	case DeviceGray:
		return "gray"
	case DeviceRGB:
		return "rgb"
	case DeviceCMYK:
		return "cmyk"
	default:
		return "unknown"
	}
}

// Spec describes the surface requested from a Backend.
type Spec struct {
	Width            int
	Height           int
	BitsPerComponent int
	Components       int
	// BytesPerRow is the row stride. Zero means tightly packed.
	BytesPerRow int
	ColorSpace  ColorSpace
}

// RowBytes returns the effective stride of the surface.
func (s Spec) RowBytes() int {
	if s.BytesPerRow > 0 {
		return s.BytesPerRow
	}
	return s.Width * s.Components * s.BitsPerComponent / 8
}

func (s Spec) String() string {
	return fmt.Sprintf("%dx%d %s %dbpc×%d stride=%d",
		s.Width, s.Height, s.ColorSpace, s.BitsPerComponent, s.Components, s.RowBytes())
}

// Canvas is a drawable surface of fixed geometry.
type Canvas interface {
	// Bounds returns the drawable area, always anchored at (0,0).
	Bounds() image.Rectangle

	// DrawScaled renders src into r, scaling it to fill r exactly.
	DrawScaled(src image.Image, r image.Rectangle)

	// Image returns a snapshot of the surface as an image.
	Image() (image.Image, error)

	// Buffer returns a copy of the whole backing store, row padding
	// included.
	Buffer() ([]byte, error)

	// Release frees the surface. Further reads fail with ErrReadback.
	Release()
}

// Backend allocates canvases. Implementations must be safe for
// concurrent Create calls.
type Backend interface {
	Create(spec Spec) (Canvas, error)
}
