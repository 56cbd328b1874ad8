// Package hasher computes content hashes of source files. A content hash
// identifies the exact bytes a fingerprint was computed from; it says
// nothing about perceptual similarity.
package hasher

import (
	"io"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// HexLen is the length of a full content hash in hex digits.
const HexLen = 16

// ContentHash returns the xxHash64 of data as 16 hex digits.
func ContentHash(data []byte) string {
	return format(xxhash.Sum64(data))
}

// ContentHashReader streams r through xxHash64. It also returns the
// number of bytes read.
func ContentHashReader(r io.Reader) (string, int64, error) {
	h := xxhash.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return "", n, err
	}
	return format(h.Sum64()), n, nil
}

// Short truncates a content hash for use in file names.
func Short(hash string, n int) string {
	if n > 0 && n < len(hash) {
		return hash[:n]
	}
	return hash
}

func format(v uint64) string {
	s := strconv.FormatUint(v, 16)
	for len(s) < HexLen {
		s = "0" + s
	}
	return s
}
