package manifest

import "github.com/AnyUserName/imgprint-cli/internal/phash"

// Manifest is the top-level output of an imgprint scan.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	Filter      string           `json:"filter"` // resampling filter the fingerprints depend on
	BasePath    string           `json:"base_path"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Images      map[string]Image `json:"images"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures scan-time parameters for diagnostics.
type BuildInfo struct {
	Workers      int    `json:"workers"`
	Cache        string `json:"cache,omitempty"` // cache file used, if any
	CacheEntries int    `json:"cache_entries,omitempty"`
}

// Image describes one source file and its fingerprints.
type Image struct {
	Original    OriginalInfo                 `json:"original"`
	ContentHash string                       `json:"content_hash"` // xxhash64 of the file bytes, 16 hex chars
	Hashes      map[string]phash.Fingerprint `json:"hashes"`       // algorithm name -> fingerprint
	Cached      bool                         `json:"cached,omitempty"`
	Thumbnails  []Thumbnail                  `json:"thumbnails,omitempty"`
}

// OriginalInfo holds metadata about the source image.
type OriginalInfo struct {
	Path       string `json:"path"` // relative to base_path
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Format     string `json:"format"` // sniffed from content
	Size       int64  `json:"size"`
	Components int    `json:"components"`
	ColorSpace string `json:"color_space"`
	HasAlpha   bool   `json:"has_alpha,omitempty"`
}

// Thumbnail is one dumped hashing thumbnail.
type Thumbnail struct {
	Algorithm string `json:"algorithm"`
	Format    string `json:"format"` // "png", "jpeg"
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Size      int64  `json:"size"` // bytes on disk
	Path      string `json:"path"` // relative to the manifest
}

// Stats aggregates scan metrics.
type Stats struct {
	TotalImages     int   `json:"total_images"`
	TotalInputBytes int64 `json:"total_input_bytes"`
	TotalThumbnails int   `json:"total_thumbnails"`
	CacheHits       int   `json:"cache_hits,omitempty"`
	Failed          int   `json:"failed,omitempty"` // images that could not be fingerprinted
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1
