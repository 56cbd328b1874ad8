package profile

import (
	"sort"

	"github.com/AnyUserName/imgprint-cli/internal/canvas"
	"github.com/AnyUserName/imgprint-cli/internal/phash"
)

// Profile defines how images are fingerprinted.
type Profile struct {
	Name       string
	Filter     canvas.Filter     // resampling filter for the thumbnail step
	Algorithms []phash.Algorithm // fingerprints to compute
	Thumbnails []string          // formats to dump thumbnails in; empty disables
	Quality    int               // encoding quality 1-100 for lossy thumbnails
}

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {
		Name:       "default",
		Filter:     canvas.FilterArea,
		Algorithms: []phash.Algorithm{phash.AHash, phash.DHash},
		Quality:    90,
	},
	"bilinear": {
		Name:       "bilinear",
		Filter:     canvas.FilterBilinear,
		Algorithms: []phash.Algorithm{phash.AHash, phash.DHash},
		Quality:    90,
	},
	"lanczos": {
		Name:       "lanczos",
		Filter:     canvas.FilterLanczos,
		Algorithms: []phash.Algorithm{phash.AHash, phash.DHash},
		Quality:    90,
	},
	"debug": {
		Name:       "debug",
		Filter:     canvas.FilterArea,
		Algorithms: []phash.Algorithm{phash.AHash, phash.DHash},
		Thumbnails: []string{"png"},
		Quality:    100,
	},
}

// Get returns a profile by name. Falls back to default if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles["default"]
	p.Name = name // preserve requested name
	return p
}

// Known reports whether name is a built-in profile.
func Known(name string) bool {
	_, ok := profiles[name]
	return ok
}

// Names lists the built-in profiles.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CacheNamespace is the store bucket for this profile's results, keyed by
// name and filter.
func (p Profile) CacheNamespace() string {
	return p.Name + "/" + p.Filter.String()
}

// Has reports whether the profile computes algorithm a.
func (p Profile) Has(a phash.Algorithm) bool {
	for _, x := range p.Algorithms {
		if x == a {
			return true
		}
	}
	return false
}
