package phash

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrCanvasCreation means the backend could not allocate a surface.
	ErrCanvasCreation = errors.New("phash: canvas creation failed")

	// ErrReadback means the rendered surface could not be read.
	ErrReadback = errors.New("phash: readback failed")

	// ErrUnsupportedColorModel is a usage error: the pixel layout cannot
	// be processed by the requested stage.
	ErrUnsupportedColorModel = errors.New("phash: unsupported color model")
)

// IntegrityError is the panic value raised when a buffer does not have
// the exact size a stage requested. It is never returned as an error.
type IntegrityError struct {
	Stage  string
	Width  int
	Height int
	Got    int
	Detail string
}

func (e *IntegrityError) Error() string {
	s := fmt.Sprintf("phash: %s: want %dx%d (%d bytes), got %d bytes",
		e.Stage, e.Width, e.Height, e.Width*e.Height, e.Got)
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	return s
}

// mustSize panics unless n == w*h.
func mustSize(stage string, w, h, n int) {
	if n != w*h {
		panic(&IntegrityError{Stage: stage, Width: w, Height: h, Got: n})
	}
}
