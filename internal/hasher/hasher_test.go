package hasher

import (
	"bytes"
	"testing"

	"github.com/cespare/xxhash/v2"
)

func TestContentHash(t *testing.T) {
	data := []byte("imgprint")
	h := ContentHash(data)
	if len(h) != HexLen {
		t.Fatalf("len = %d", len(h))
	}
	if h != ContentHash(append([]byte(nil), data...)) {
		t.Error("not deterministic")
	}
	if h == ContentHash([]byte("imgprinT")) {
		t.Error("different input, same hash")
	}

	streamed, n, err := ContentHashReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if streamed != h || n != int64(len(data)) {
		t.Errorf("reader = %s (%d bytes), bytes = %s", streamed, n, h)
	}
}

func TestContentHash_ZeroPadded(t *testing.T) {
	// Find an input whose digest has a leading zero nibble.
	for i := 0; i < 1000; i++ {
		data := []byte{byte(i), byte(i >> 8)}
		if xxhash.Sum64(data)>>60 == 0 {
			if h := ContentHash(data); len(h) != HexLen || h[0] != '0' {
				t.Fatalf("hash %q not zero-padded", h)
			}
			return
		}
	}
	t.Skip("no digest with leading zero nibble in search range")
}

func TestShort(t *testing.T) {
	if Short("0123456789abcdef", 8) != "01234567" {
		t.Error("Short(8)")
	}
	if Short("abc", 0) != "abc" || Short("abc", 10) != "abc" {
		t.Error("Short passthrough")
	}
}
