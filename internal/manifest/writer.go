package manifest

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
)

// FileName is the manifest's name inside an output directory.
const FileName = "imgprint.manifest.json"

// New creates an empty manifest with defaults.
func New(profileName, filter string) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
		Filter:      filter,
		BasePath:    "./",
		Images:      make(map[string]Image),
	}
}

// ComputeStats recalculates aggregate statistics from images. Failed is
// carried over since failed images have no entry.
func (m *Manifest) ComputeStats() {
	s := Stats{Failed: m.Stats.Failed}
	s.TotalImages = len(m.Images)
	for _, img := range m.Images {
		s.TotalInputBytes += img.Original.Size
		s.TotalThumbnails += len(img.Thumbnails)
		if img.Cached {
			s.CacheHits++
		}
	}
	m.Stats = s
}

// WriteJSON serializes the manifest to a JSON file with stable ordering.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a manifest from path.
func ReadJSON(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "parse manifest")
	}
	return &m, nil
}
