package pipeline

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/AnyUserName/imgprint-cli/internal/canvas"
	"github.com/AnyUserName/imgprint-cli/internal/encoder"
	"github.com/AnyUserName/imgprint-cli/internal/manifest"
	"github.com/AnyUserName/imgprint-cli/internal/phash"
	"github.com/AnyUserName/imgprint-cli/internal/profile"
	"github.com/AnyUserName/imgprint-cli/internal/store"
)

// ThumbDir is the directory under OutputDir receiving dumped thumbnails.
const ThumbDir = "thumbs"

// Config holds all parameters for a scan.
type Config struct {
	InputDir  string
	OutputDir string
	Profile   profile.Profile
	Workers   int
	Cache     *store.Store // optional
	Logger    *slog.Logger
}

// Pipeline fingerprints every image under a directory.
type Pipeline struct {
	cfg      Config
	hasher   *phash.Hasher
	registry *encoder.Registry
	formats  []string // resolved thumbnail formats
	log      *slog.Logger
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if len(cfg.Profile.Algorithms) == 0 {
		cfg.Profile.Algorithms = phash.Algorithms
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	registry := encoder.NewRegistry()
	formats, unknown := registry.ResolveFormats(cfg.Profile.Thumbnails)
	for _, f := range unknown {
		log.Warn("ignoring unknown thumbnail format", "format", f, "available", registry.Available())
	}

	return &Pipeline{
		cfg:      cfg,
		hasher:   phash.New(canvas.NewRaster(cfg.Profile.Filter)),
		registry: registry,
		formats:  formats,
		log:      log,
	}
}

// Run executes the scan and returns the manifest. Individual failures are
// logged and counted; Run fails only when no image could be processed.
func (p *Pipeline) Run() (*manifest.Manifest, error) {
	p.log.Debug("scan configuration",
		"filter", p.cfg.Profile.Filter.String(),
		"algorithms", p.cfg.Profile.Algorithms,
		"thumbnails", p.formats,
		"workers", p.cfg.Workers)

	// Step 1: Scan for images.
	sources, err := ScanImages(p.cfg.InputDir, p.cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}
	p.log.Debug("found images", "count", len(sources))

	// Step 2: Fingerprint in parallel.
	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			p.log.Debug("processing", "key", s.Key)
			results[idx] = p.processImage(s)

			if r := results[idx]; r.err == nil {
				p.log.Debug("done", "key", s.Key, "hashes", r.image.Hashes, "cached", r.image.Cached)
			}
		}(i, src)
	}
	wg.Wait()

	// Step 3: Collect results into manifest.
	m := manifest.New(p.cfg.Profile.Name, p.cfg.Profile.Filter.String())

	var failed int
	for _, r := range results {
		if r.err != nil {
			failed++
			p.log.Error("fingerprint failed", "key", r.key, "error", r.err)
			continue
		}
		m.Images[r.key] = r.image
	}

	if failed > 0 {
		if failed == len(sources) {
			return nil, fmt.Errorf("all %d images failed to process", failed)
		}
		p.log.Warn("some images had errors", "failed", failed, "total", len(sources))
	}

	m.BuildInfo = &manifest.BuildInfo{Workers: p.cfg.Workers}
	m.Stats.Failed = failed
	m.ComputeStats()
	return m, nil
}
