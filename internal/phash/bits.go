package phash

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Fingerprint is a 64-bit perceptual hash. Bit i corresponds to the i-th
// comparison in row-major order, bit 0 being the top-left one.
type Fingerprint uint64

// String formats f as 16 lowercase hex digits.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// Bit reports whether bit i is set.
func (f Fingerprint) Bit(i int) bool {
	return i >= 0 && i < 64 && f&(1<<uint(i)) != 0
}

func (f Fingerprint) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Fingerprint) UnmarshalText(b []byte) error {
	v, err := ParseFingerprint(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// ParseFingerprint parses a hex fingerprint, with or without a 0x prefix.
func ParseFingerprint(s string) (Fingerprint, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" || len(s) > 16 {
		return 0, errors.Errorf("invalid fingerprint %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid fingerprint %q", s)
	}
	return Fingerprint(v), nil
}

// AHashBits computes the average hash of an 8x8 grayscale buffer: bit i
// is set iff sample i is strictly above the mean of all 64 samples.
// Any other geometry panics with *IntegrityError.
func AHashBits(buf *PixelBuffer) Fingerprint {
	checkThumb("ahash", buf, 8, 8)

	var sum float32
	for _, v := range buf.Pix {
		sum += float32(v)
	}
	avg := sum / float32(len(buf.Pix))

	var h Fingerprint
	for i, v := range buf.Pix {
		if float32(v) > avg {
			h |= 1 << uint(i)
		}
	}
	return h
}

// DHashBits computes the difference hash of a 9x8 grayscale buffer: bit
// r*8+c is set iff pixel (c, r) is strictly brighter than pixel (c+1, r).
// Any other geometry panics with *IntegrityError.
func DHashBits(buf *PixelBuffer) Fingerprint {
	checkThumb("dhash", buf, 9, 8)

	var h Fingerprint
	for r := 0; r < 8; r++ {
		row := buf.Pix[r*9 : r*9+9]
		for c := 0; c < 8; c++ {
			if row[c] > row[c+1] {
				h |= 1 << uint(r*8+c)
			}
		}
	}
	return h
}

func checkThumb(stage string, buf *PixelBuffer, w, h int) {
	if buf == nil {
		panic(&IntegrityError{Stage: stage, Width: w, Height: h, Detail: "nil buffer"})
	}
	if buf.Width != w || buf.Height != h || !buf.IsGray() {
		panic(&IntegrityError{Stage: stage, Width: w, Height: h, Got: len(buf.Pix), Detail: buf.String()})
	}
	mustSize(stage, w, h, len(buf.Pix))
}
