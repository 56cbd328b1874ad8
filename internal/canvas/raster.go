package canvas

import (
	"image"
	"sync"

	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
)

// DefaultMaxPixels caps a single surface at 256 megapixels.
const DefaultMaxPixels = 256 << 20

// Raster is an in-memory Backend drawing with golang.org/x/image.
type Raster struct {
	Filter    Filter
	MaxPixels int
}

// NewRaster returns a backend using the given resampling filter.
func NewRaster(filter Filter) *Raster {
	return &Raster{Filter: filter, MaxPixels: DefaultMaxPixels}
}

// Create allocates a DeviceGray 8-bit surface.
func (r *Raster) Create(spec Spec) (Canvas, error) {
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, errors.Wrapf(ErrCreate, "invalid size %dx%d", spec.Width, spec.Height)
	}
	if spec.ColorSpace != DeviceGray || spec.Components != 1 || spec.BitsPerComponent != 8 {
		return nil, errors.Wrapf(ErrCreate, "unsupported surface %s", spec)
	}
	stride := spec.RowBytes()
	if stride < spec.Width {
		return nil, errors.Wrapf(ErrCreate, "row stride %d shorter than width %d", stride, spec.Width)
	}
	limit := r.MaxPixels
	if limit <= 0 {
		limit = DefaultMaxPixels
	}
	if stride*spec.Height > limit {
		return nil, errors.Wrapf(ErrCreate, "surface %s exceeds %d pixel budget", spec, limit)
	}

	rect := image.Rect(0, 0, spec.Width, spec.Height)
	return &grayCanvas{
		dst: &image.Gray{
			Pix:    make([]uint8, stride*spec.Height),
			Stride: stride,
			Rect:   rect,
		},
		filter: r.Filter,
	}, nil
}

type grayCanvas struct {
	mu     sync.Mutex
	dst    *image.Gray
	filter Filter
}

func (c *grayCanvas) Bounds() image.Rectangle {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dst == nil {
		return image.Rectangle{}
	}
	return c.dst.Rect
}

func (c *grayCanvas) DrawScaled(src image.Image, r image.Rectangle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dst == nil {
		return
	}
	r = r.Intersect(c.dst.Rect)
	if r.Empty() || src.Bounds().Empty() {
		return
	}
	if src.Bounds().Size() == r.Size() {
		xdraw.Draw(c.dst, r, src, src.Bounds().Min, xdraw.Src)
		return
	}
	c.filter.scale(c.dst, r, src)
}

func (c *grayCanvas) Image() (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dst == nil {
		return nil, errors.Wrap(ErrReadback, "canvas released")
	}
	out := &image.Gray{
		Pix:    append([]uint8(nil), c.dst.Pix...),
		Stride: c.dst.Stride,
		Rect:   c.dst.Rect,
	}
	return out, nil
}

func (c *grayCanvas) Buffer() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dst == nil {
		return nil, errors.Wrap(ErrReadback, "canvas released")
	}
	return append([]byte(nil), c.dst.Pix...), nil
}

func (c *grayCanvas) Release() {
	c.mu.Lock()
	c.dst = nil
	c.mu.Unlock()
}
