// Package phash computes 64-bit perceptual fingerprints of images.
//
// Every hash follows the same pipeline: the source is rendered into an
// 8-bit DeviceGray canvas of its own size (ToGrayscale), that buffer is
// rendered into a canvas of the thumbnail size (Resize), and the
// thumbnail's samples are turned into bits (AHashBits, DHashBits).
// Each stage allocates a fresh buffer; nothing is cached or shared, so a
// Hasher may be used from any number of goroutines.
//
// A buffer whose size differs from the geometry a stage asked the backend
// for is an integrity violation and panics with *IntegrityError: no
// fingerprint is ever derived from a mis-sized buffer.
package phash

import (
	"image"

	"github.com/pkg/errors"

	"github.com/AnyUserName/imgprint-cli/internal/canvas"
)

// Algorithm names a bit-extraction rule.
type Algorithm string

const (
	AHash Algorithm = "ahash"
	DHash Algorithm = "dhash"
)

// Algorithms lists every supported algorithm.
var Algorithms = []Algorithm{AHash, DHash}

// Size returns the thumbnail geometry the algorithm hashes.
func (a Algorithm) Size() (w, h int) {
	switch a {
	case AHash:
		return 8, 8
	case DHash:
		return 9, 8
	default:
		return 0, 0
	}
}

// Extract derives the fingerprint from a thumbnail of a.Size().
func (a Algorithm) Extract(buf *PixelBuffer) Fingerprint {
	if a == DHash {
		return DHashBits(buf)
	}
	return AHashBits(buf)
}

// ParseAlgorithm validates an algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	for _, a := range Algorithms {
		if string(a) == name {
			return a, nil
		}
	}
	return "", errors.Errorf("unknown algorithm %q (want ahash or dhash)", name)
}

// Hasher runs the pipeline against a rendering backend.
type Hasher struct {
	backend canvas.Backend
}

// New returns a Hasher drawing into backend.
func New(backend canvas.Backend) *Hasher {
	return &Hasher{backend: backend}
}

// Default returns a Hasher on the in-memory raster backend with the
// area-average filter.
func Default() *Hasher {
	return New(canvas.NewRaster(canvas.FilterArea))
}

var defaultHasher = Default()

// ToGrayscale renders img into a single-channel 8-bit canvas of the same
// size. Sources with zero or more than four components are rejected.
func (h *Hasher) ToGrayscale(img image.Image) (*PixelBuffer, error) {
	if img == nil {
		return nil, errors.Wrap(ErrUnsupportedColorModel, "nil image")
	}
	_, n := canvas.ModelOf(img)
	if n < 1 || n > 4 {
		return nil, errors.Wrapf(ErrUnsupportedColorModel, "source has %d components", n)
	}

	b := img.Bounds()
	w, ht := b.Dx(), b.Dy()
	data, err := h.render(img, canvas.Spec{
		Width:            w,
		Height:           ht,
		BitsPerComponent: 8,
		Components:       1,
		BytesPerRow:      w,
		ColorSpace:       canvas.DeviceGray,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "grayscale")
	}
	if len(data) != w*ht {
		return nil, errors.Wrapf(ErrReadback, "grayscale: %dx%d canvas returned %d bytes", w, ht, len(data))
	}

	return &PixelBuffer{
		Width:              w,
		Height:             ht,
		ComponentsPerPixel: 1,
		BitsPerComponent:   8,
		ColorSpace:         canvas.DeviceGray,
		Pix:                data,
	}, nil
}

// Resize renders a grayscale buffer into a width x height canvas. Buffers
// with more than one component are refused with ErrUnsupportedColorModel.
// A backend returning anything but width*height bytes panics.
func (h *Hasher) Resize(buf *PixelBuffer, width, height int) (*PixelBuffer, error) {
	if buf == nil {
		return nil, errors.Wrap(ErrUnsupportedColorModel, "nil buffer")
	}
	if !buf.IsGray() {
		return nil, errors.Wrapf(ErrUnsupportedColorModel,
			"resize supports 1 component at 8 bits, got %d at %d", buf.ComponentsPerPixel, buf.BitsPerComponent)
	}
	if !buf.Valid() {
		return nil, errors.Errorf("phash: resize: malformed buffer %s", buf)
	}

	cs := buf.ColorSpace
	if cs == canvas.ColorSpaceUnknown {
		cs = canvas.DeviceGray
	}
	data, err := h.render(buf.Image(), canvas.Spec{
		Width:            width,
		Height:           height,
		BitsPerComponent: 8,
		Components:       1,
		BytesPerRow:      width,
		ColorSpace:       cs,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "resize")
	}
	mustSize("resize", width, height, len(data))

	return &PixelBuffer{
		Width:              width,
		Height:             height,
		ComponentsPerPixel: 1,
		BitsPerComponent:   8,
		ColorSpace:         cs,
		Pix:                data,
	}, nil
}

// render draws src scaled into a fresh canvas and reads its backing store.
// The canvas is released on every path.
func (h *Hasher) render(src image.Image, spec canvas.Spec) ([]byte, error) {
	c, err := h.backend.Create(spec)
	if err != nil {
		return nil, errors.Wrapf(ErrCanvasCreation, "%v", err)
	}
	defer c.Release()

	c.DrawScaled(src, image.Rect(0, 0, spec.Width, spec.Height))
	data, err := c.Buffer()
	if err != nil {
		return nil, errors.Wrapf(ErrReadback, "%v", err)
	}
	return data, nil
}

// Hash runs a fresh grayscale conversion and resize, then extracts a's bits.
func (h *Hasher) Hash(img image.Image, a Algorithm) (Fingerprint, error) {
	w, ht := a.Size()
	if w == 0 {
		return 0, errors.Errorf("unknown algorithm %q", a)
	}
	gray, err := h.ToGrayscale(img)
	if err != nil {
		return 0, err
	}
	thumb, err := h.Resize(gray, w, ht)
	if err != nil {
		return 0, err
	}
	return a.Extract(thumb), nil
}

// AverageHash is AHashBits(Resize(ToGrayscale(img), 8, 8)).
func (h *Hasher) AverageHash(img image.Image) (Fingerprint, error) {
	return h.Hash(img, AHash)
}

// DifferenceHash is DHashBits(Resize(ToGrayscale(img), 9, 8)).
func (h *Hasher) DifferenceHash(img image.Image) (Fingerprint, error) {
	return h.Hash(img, DHash)
}

// Result holds several fingerprints of one image along with the
// thumbnails they were computed from.
type Result struct {
	Width      int
	Height     int
	Hashes     map[Algorithm]Fingerprint
	Thumbnails map[Algorithm]*PixelBuffer
}

// Fingerprints converts img to grayscale once and resizes it once per
// algorithm. The hashes equal those of separate Hash calls. With no
// algorithms given, all are computed.
func (h *Hasher) Fingerprints(img image.Image, algos ...Algorithm) (*Result, error) {
	if len(algos) == 0 {
		algos = Algorithms
	}
	gray, err := h.ToGrayscale(img)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Width:      gray.Width,
		Height:     gray.Height,
		Hashes:     make(map[Algorithm]Fingerprint, len(algos)),
		Thumbnails: make(map[Algorithm]*PixelBuffer, len(algos)),
	}
	for _, a := range algos {
		w, ht := a.Size()
		if w == 0 {
			return nil, errors.Errorf("unknown algorithm %q", a)
		}
		thumb, err := h.Resize(gray, w, ht)
		if err != nil {
			return nil, err
		}
		res.Hashes[a] = a.Extract(thumb)
		res.Thumbnails[a] = thumb
	}
	return res, nil
}

// ToGrayscale converts img with the default Hasher.
func ToGrayscale(img image.Image) (*PixelBuffer, error) {
	return defaultHasher.ToGrayscale(img)
}

// Resize resizes buf with the default Hasher.
func Resize(buf *PixelBuffer, width, height int) (*PixelBuffer, error) {
	return defaultHasher.Resize(buf, width, height)
}

// AverageHash hashes img with the default Hasher.
func AverageHash(img image.Image) (Fingerprint, error) {
	return defaultHasher.AverageHash(img)
}

// DifferenceHash hashes img with the default Hasher.
func DifferenceHash(img image.Image) (Fingerprint, error) {
	return defaultHasher.DifferenceHash(img)
}
