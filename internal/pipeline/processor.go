package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/imgprint-cli/internal/encoder"
	"github.com/AnyUserName/imgprint-cli/internal/hasher"
	"github.com/AnyUserName/imgprint-cli/internal/manifest"
	"github.com/AnyUserName/imgprint-cli/internal/phash"
	"github.com/AnyUserName/imgprint-cli/internal/source"
	"github.com/AnyUserName/imgprint-cli/internal/store"
)

// processResult holds the result of processing a single source image.
type processResult struct {
	key   string
	image manifest.Image
	err   error
}

// processImage handles a single source image: read, content hash, cache
// lookup, decode, fingerprint, thumbnails.
func (p *Pipeline) processImage(src Source) processResult {
	result := processResult{key: src.Key}

	data, err := os.ReadFile(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("read %s: %w", src.RelPath, err)
		return result
	}

	contentHash := hasher.ContentHash(data)
	result.image = manifest.Image{
		Original: manifest.OriginalInfo{
			Path:   src.RelPath,
			Format: src.Format,
			Size:   int64(len(data)),
		},
		ContentHash: contentHash,
	}

	// Thumbnails need the decoded image, so the cache only short-circuits
	// scans that do not dump them.
	if p.cfg.Cache != nil && len(p.formats) == 0 {
		if p.fromCache(contentHash, &result.image) {
			return result
		}
	}

	img, format, err := source.DecodeBytes(data)
	if err != nil {
		result.err = fmt.Errorf("decode %s: %w", src.RelPath, err)
		return result
	}
	info := source.Describe(img)
	result.image.Original.Format = format
	result.image.Original.Width = info.Width
	result.image.Original.Height = info.Height
	result.image.Original.Components = info.Components
	result.image.Original.ColorSpace = info.ColorSpace.String()
	result.image.Original.HasAlpha = info.HasAlpha

	res, err := p.hasher.Fingerprints(img, p.cfg.Profile.Algorithms...)
	if err != nil {
		result.err = fmt.Errorf("fingerprint %s: %w", src.RelPath, err)
		return result
	}
	result.image.Hashes = make(map[string]phash.Fingerprint, len(res.Hashes))
	for a, f := range res.Hashes {
		result.image.Hashes[string(a)] = f
	}

	if len(p.formats) > 0 {
		thumbs, err := p.writeThumbnails(src, contentHash, res)
		if err != nil {
			result.err = err
			return result
		}
		result.image.Thumbnails = thumbs
	}

	if p.cfg.Cache != nil {
		rec := &store.Record{
			Format:     format,
			HasAlpha:   info.HasAlpha,
			Width:      info.Width,
			Height:     info.Height,
			Components: info.Components,
			ColorSpace: info.ColorSpace.String(),
			Hashes:     result.image.Hashes,
		}
		if err := p.cfg.Cache.Put(p.cfg.Profile.CacheNamespace(), contentHash, rec); err != nil {
			p.log.Warn("cache write failed", "key", src.Key, "error", err)
		}
	}

	return result
}

// fromCache fills img from a cached record covering every configured
// algorithm. It reports whether the cache was used.
func (p *Pipeline) fromCache(contentHash string, img *manifest.Image) bool {
	rec, ok, err := p.cfg.Cache.Get(p.cfg.Profile.CacheNamespace(), contentHash)
	if err != nil {
		p.log.Warn("cache read failed", "path", img.Original.Path, "error", err)
		return false
	}
	if !ok {
		return false
	}
	hashes := make(map[string]phash.Fingerprint, len(p.cfg.Profile.Algorithms))
	for _, a := range p.cfg.Profile.Algorithms {
		f, ok := rec.Hashes[string(a)]
		if !ok {
			return false
		}
		hashes[string(a)] = f
	}

	if rec.Format != "" {
		img.Original.Format = rec.Format
	}
	img.Original.HasAlpha = rec.HasAlpha
	img.Original.Width = rec.Width
	img.Original.Height = rec.Height
	img.Original.Components = rec.Components
	img.Original.ColorSpace = rec.ColorSpace
	img.Hashes = hashes
	img.Cached = true
	return true
}

// writeThumbnails dumps each hashing thumbnail in every configured format.
// Files are named thumbs/<key>.<algorithm>.<hash8>.<ext>.
func (p *Pipeline) writeThumbnails(src Source, contentHash string, res *phash.Result) ([]manifest.Thumbnail, error) {
	keyDir := filepath.Dir(src.Key)
	if err := os.MkdirAll(filepath.Join(p.cfg.OutputDir, ThumbDir, keyDir), 0o755); err != nil {
		return nil, fmt.Errorf("create thumbnail dir: %w", err)
	}

	var out []manifest.Thumbnail
	for _, a := range p.cfg.Profile.Algorithms {
		buf := res.Thumbnails[a]
		if buf == nil {
			continue
		}
		for _, format := range p.formats {
			enc := p.registry.Get(format)
			if enc == nil {
				continue
			}

			fileName := fmt.Sprintf("%s.%s.%s.%s",
				filepath.Base(src.Key), a, hasher.Short(contentHash, 8), enc.Extension())
			relPath := filepath.ToSlash(filepath.Join(ThumbDir, keyDir, fileName))

			size, err := encoder.WriteFile(enc, buf.Image(), p.cfg.Profile.Quality, filepath.Join(p.cfg.OutputDir, relPath))
			if err != nil {
				return nil, fmt.Errorf("thumbnail %s: %w", relPath, err)
			}
			out = append(out, manifest.Thumbnail{
				Algorithm: string(a),
				Format:    enc.Format(),
				Width:     buf.Width,
				Height:    buf.Height,
				Size:      size,
				Path:      relPath,
			})
		}
	}
	return out, nil
}
