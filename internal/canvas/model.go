package canvas

import (
	"image"
	"image/color"
)

// ModelOf reports the color space of img and its component count per
// pixel, alpha channel included.
func ModelOf(img image.Image) (ColorSpace, int) {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return DeviceGray, 1
	case *image.CMYK:
		return DeviceCMYK, 4
	case *image.YCbCr:
		return DeviceRGB, 3
	case *image.NYCbCrA, *image.RGBA, *image.RGBA64, *image.NRGBA, *image.NRGBA64:
		return DeviceRGB, 4
	case *image.Alpha, *image.Alpha16:
		return ColorSpaceUnknown, 0
	case *image.Paletted:
		return DeviceRGB, 4
	}

	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		return DeviceGray, 1
	case color.CMYKModel:
		return DeviceCMYK, 4
	case color.YCbCrModel:
		return DeviceRGB, 3
	case color.AlphaModel, color.Alpha16Model:
		return ColorSpaceUnknown, 0
	default:
		return DeviceRGB, 4
	}
}
