package canvas

import (
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
)

// Filter selects the resampling kernel used for scaled draws. The filter
// is part of a fingerprint's identity: the same image hashed under two
// filters may produce different bits.
type Filter int

const (
	// FilterArea averages every source pixel covered by a destination
	// pixel and rounds to the nearest integer. Equal-size draws are exact
	// copies. This is the default.
	FilterArea Filter = iota
	FilterNearest
	FilterBilinear
	FilterCatmullRom
	FilterLanczos
	FilterMitchell
)

var filterNames = map[Filter]string{
	FilterArea:       "area",
	FilterNearest:    "nearest",
	FilterBilinear:   "bilinear",
	FilterCatmullRom: "catmullrom",
	FilterLanczos:    "lanczos",
	FilterMitchell:   "mitchell",
}

func (f Filter) String() string {
	if n, ok := filterNames[f]; ok {
		return n
	}
	return "unknown"
}

// Filters returns all filter names in declaration order.
func Filters() []string {
	out := make([]string, 0, len(filterNames))
	for f := FilterArea; f <= FilterMitchell; f++ {
		out = append(out, f.String())
	}
	return out
}

// ParseFilter resolves a filter by name, case-insensitively.
func ParseFilter(name string) (Filter, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, n := range filterNames {
		if n == name {
			return f, nil
		}
	}
	return 0, errors.Errorf("unknown filter %q (want one of %s)", name, strings.Join(Filters(), ", "))
}

// scale renders src into r of dst, resampled to r's size.
func (f Filter) scale(dst *image.Gray, r image.Rectangle, src image.Image) {
	w, h := r.Dx(), r.Dy()
	switch f {
	case FilterNearest:
		xdraw.NearestNeighbor.Scale(dst, r, src, src.Bounds(), xdraw.Src, nil)
	case FilterBilinear:
		xdraw.BiLinear.Scale(dst, r, src, src.Bounds(), xdraw.Src, nil)
	case FilterCatmullRom:
		xdraw.CatmullRom.Scale(dst, r, src, src.Bounds(), xdraw.Src, nil)
	case FilterLanczos:
		out := imaging.Resize(src, w, h, imaging.Lanczos)
		xdraw.Draw(dst, r, out, out.Bounds().Min, xdraw.Src)
	case FilterMitchell:
		out := resize.Resize(uint(w), uint(h), src, resize.MitchellNetravali)
		xdraw.Draw(dst, r, out, out.Bounds().Min, xdraw.Src)
	default:
		areaScale(dst, r, src)
	}
}

// areaScale is a destination-order box filter with integer accumulation.
func areaScale(dst *image.Gray, r image.Rectangle, src image.Image) {
	sb := src.Bounds()
	srcW, srcH := sb.Dx(), sb.Dy()
	dstW, dstH := r.Dx(), r.Dy()
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return
	}

	g, ok := src.(*image.Gray)
	if !ok {
		g = image.NewGray(image.Rect(0, 0, srcW, srcH))
		xdraw.Draw(g, g.Rect, src, sb.Min, xdraw.Src)
		sb = g.Rect
	}

	for dy := 0; dy < dstH; dy++ {
		sy0, sy1 := srcSpan(dy, dstH, srcH)
		row := dst.Pix[dst.PixOffset(r.Min.X, r.Min.Y+dy):]
		for dx := 0; dx < dstW; dx++ {
			sx0, sx1 := srcSpan(dx, dstW, srcW)

			var sum uint64
			for sy := sy0; sy < sy1; sy++ {
				off := g.PixOffset(sb.Min.X+sx0, sb.Min.Y+sy)
				for _, v := range g.Pix[off : off+sx1-sx0] {
					sum += uint64(v)
				}
			}

			n := uint64((sy1 - sy0) * (sx1 - sx0))
			row[dx] = uint8((sum + n/2) / n)
		}
	}
}

// srcSpan maps destination index d to the half-open source range it covers.
func srcSpan(d, dstSize, srcSize int) (int, int) {
	s0 := d * srcSize / dstSize
	s1 := (d + 1) * srcSize / dstSize
	if s1 <= s0 {
		s1 = s0 + 1
	}
	if s1 > srcSize {
		s1 = srcSize
	}
	return s0, s1
}
