package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgprint-cli/internal/canvas"
	"github.com/AnyUserName/imgprint-cli/internal/hasher"
	"github.com/AnyUserName/imgprint-cli/internal/manifest"
	"github.com/AnyUserName/imgprint-cli/internal/phash"
	"github.com/AnyUserName/imgprint-cli/internal/source"
)

var (
	validateInput     string
	validateRecompute bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest_path>",
	Short: "Validate a manifest and check referenced files",
	Long: `Checks manifest structure and that every dumped thumbnail exists.

With --input pointing at the scanned directory, each source file is also
checked against its recorded size and content hash; --recompute then
fingerprints the sources again with the manifest's filter and reports any
fingerprint that is not reproduced bit for bit.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "scanned input directory")
	validateCmd.Flags().BoolVar(&validateRecompute, "recompute", false, "recompute fingerprints (requires --input)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	manifestPath := args[0]

	m, err := manifest.ReadJSON(manifestPath)
	if err != nil {
		return err
	}
	if validateRecompute && validateInput == "" {
		return fmt.Errorf("--recompute requires --input")
	}

	errs := validateManifest(m, filepath.Dir(manifestPath), validateInput, validateRecompute)
	if len(errs) == 0 {
		fmt.Println("  ✓ Manifest is valid")
		fmt.Printf("  ✓ %d images, %d thumbnails, all files present\n", m.Stats.TotalImages, m.Stats.TotalThumbnails)
		return nil
	}

	fmt.Printf("  ✗ Manifest has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

func validateManifest(m *manifest.Manifest, baseDir, inputDir string, recompute bool) []string {
	var errs []string

	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	var h *phash.Hasher
	if recompute {
		f, err := canvas.ParseFilter(m.Filter)
		if err != nil {
			errs = append(errs, fmt.Sprintf("filter: %v", err))
			recompute = false
		} else {
			h = phash.New(canvas.NewRaster(f))
		}
	}

	keys := sortedKeys(m)
	thumbCount := 0
	for _, key := range keys {
		img := m.Images[key]
		thumbCount += len(img.Thumbnails)

		if img.Original.Width <= 0 || img.Original.Height <= 0 {
			errs = append(errs, fmt.Sprintf("image %q: invalid dimensions %dx%d",
				key, img.Original.Width, img.Original.Height))
		}
		if len(img.ContentHash) != hasher.HexLen {
			errs = append(errs, fmt.Sprintf("image %q: malformed content hash %q", key, img.ContentHash))
		}
		if len(img.Hashes) == 0 {
			errs = append(errs, fmt.Sprintf("image %q: no fingerprints", key))
		}
		for algo := range img.Hashes {
			if _, err := phash.ParseAlgorithm(algo); err != nil {
				errs = append(errs, fmt.Sprintf("image %q: %v", key, err))
			}
		}

		seenPaths := map[string]bool{}
		for i, th := range img.Thumbnails {
			w, ht := phash.Algorithm(th.Algorithm).Size()
			if th.Width != w || th.Height != ht {
				errs = append(errs, fmt.Sprintf("image %q thumbnail[%d]: %s thumbnail is %dx%d, want %dx%d",
					key, i, th.Algorithm, th.Width, th.Height, w, ht))
			}
			if th.Path == "" {
				errs = append(errs, fmt.Sprintf("image %q thumbnail[%d]: missing path", key, i))
				continue
			}
			if seenPaths[th.Path] {
				errs = append(errs, fmt.Sprintf("image %q thumbnail[%d]: duplicate path %q", key, i, th.Path))
			}
			seenPaths[th.Path] = true

			info, err := os.Stat(filepath.Join(baseDir, th.Path))
			if err != nil {
				errs = append(errs, fmt.Sprintf("image %q thumbnail[%d]: file not found: %s", key, i, th.Path))
			} else if th.Size > 0 && info.Size() != th.Size {
				errs = append(errs, fmt.Sprintf("image %q thumbnail[%d]: size mismatch: manifest=%d, disk=%d",
					key, i, th.Size, info.Size()))
			}
		}

		if inputDir != "" {
			errs = append(errs, checkSource(h, inputDir, key, img, recompute)...)
		}
	}

	if m.Stats.TotalImages != len(m.Images) {
		errs = append(errs, fmt.Sprintf("stats.total_images mismatch: %d != %d", m.Stats.TotalImages, len(m.Images)))
	}
	if m.Stats.TotalThumbnails != thumbCount {
		errs = append(errs, fmt.Sprintf("stats.total_thumbnails mismatch: %d != %d", m.Stats.TotalThumbnails, thumbCount))
	}

	return errs
}

// checkSource verifies a source file against its manifest entry.
func checkSource(h *phash.Hasher, inputDir, key string, img manifest.Image, recompute bool) []string {
	var errs []string

	path := filepath.Join(inputDir, filepath.FromSlash(img.Original.Path))
	got, n, err := hashFile(path)
	if err != nil {
		return []string{fmt.Sprintf("image %q: source not readable: %v", key, err)}
	}
	if n != img.Original.Size {
		errs = append(errs, fmt.Sprintf("image %q: size mismatch: manifest=%d, disk=%d", key, img.Original.Size, n))
	}
	if got != img.ContentHash {
		errs = append(errs, fmt.Sprintf("image %q: content hash mismatch: manifest=%s, disk=%s", key, img.ContentHash, got))
		return errs
	}
	if !recompute {
		return errs
	}

	decoded, _, err := source.Open(path)
	if err != nil {
		return append(errs, fmt.Sprintf("image %q: %v", key, err))
	}
	algos := make([]string, 0, len(img.Hashes))
	for a := range img.Hashes {
		algos = append(algos, a)
	}
	sort.Strings(algos)
	for _, name := range algos {
		a, err := phash.ParseAlgorithm(name)
		if err != nil {
			continue
		}
		got, err := h.Hash(decoded, a)
		if err != nil {
			errs = append(errs, fmt.Sprintf("image %q: %s: %v", key, name, err))
			continue
		}
		if want := img.Hashes[name]; got != want {
			errs = append(errs, fmt.Sprintf("image %q: %s not reproduced: manifest=%s, recomputed=%s", key, name, want, got))
		}
	}
	return errs
}

// hashFile streams the file at path through the content hasher.
func hashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()
	return hasher.ContentHashReader(f)
}
