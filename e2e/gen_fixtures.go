//go:build ignore

// gen_fixtures creates small images with known fingerprints for the E2E
// smoke test.
// Usage: go run gen_fixtures.go <output_dir>
//
// Expected with the default profile:
//
//	black.png          ahash 0000000000000000  dhash 0000000000000000
//	gradient.png       dhash 0000000000000000
//	cards/checker.png  ahash 55aa55aa55aa55aa
//	cards/halves.png   ahash f0f0f0f0f0f0f0f0
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	if err := os.MkdirAll(filepath.Join(dir, "cards"), 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	writePNG(filepath.Join(dir, "black.png"), gray(64, 64, func(int, int) uint8 { return 0 }))

	// Strictly increasing left to right: no left > right pair.
	writePNG(filepath.Join(dir, "gradient.png"), gray(9, 8, func(x, _ int) uint8 { return uint8(x * 20) }))

	writePNG(filepath.Join(dir, "cards", "checker.png"), gray(8, 8, func(x, y int) uint8 {
		if (x+y)%2 == 1 {
			return 255
		}
		return 0
	}))

	writePNG(filepath.Join(dir, "cards", "halves.png"), gray(16, 16, func(x, _ int) uint8 {
		if x < 8 {
			return 40
		}
		return 200
	}))

	writeJPEG(filepath.Join(dir, "photo.jpg"), colorGradient(400, 225))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 5 fixtures in %s\n", dir)
}

func gray(w, h int, f func(x, y int) uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: f(x, y)})
		}
	}
	return img
}

func colorGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func writePNG(path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		fmt.Fprintf(os.Stderr, "encode %s: %v\n", path, err)
		os.Exit(1)
	}
}

func writeJPEG(path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		fmt.Fprintf(os.Stderr, "encode %s: %v\n", path, err)
		os.Exit(1)
	}
}
