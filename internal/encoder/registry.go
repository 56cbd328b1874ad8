package encoder

import (
	"fmt"
	"strings"
)

// Registry holds the encoders thumbnails can be written with.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry with the built-in encoders.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}
	for _, enc := range []Encoder{&PNGEncoder{}, &JPEGEncoder{}} {
		r.encoders[enc.Format()] = enc
	}
	return r
}

// Get returns an encoder for the given format, or nil if unknown.
// "jpg" is accepted as an alias of "jpeg".
func (r *Registry) Get(format string) Encoder {
	format = strings.ToLower(format)
	if format == "jpg" {
		format = "jpeg"
	}
	return r.encoders[format]
}

// Available returns all format names in priority order.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range []string{"png", "jpeg"} {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// ResolveFormats filters requested formats to known ones, dropping
// duplicates. Unknown names are returned separately so callers can warn.
func (r *Registry) ResolveFormats(requested []string) (resolved, unknown []string) {
	seen := map[string]bool{}
	for _, f := range requested {
		enc := r.Get(strings.TrimSpace(f))
		if enc == nil {
			unknown = append(unknown, f)
			continue
		}
		if !seen[enc.Format()] {
			seen[enc.Format()] = true
			resolved = append(resolved, enc.Format())
		}
	}
	return resolved, unknown
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}
