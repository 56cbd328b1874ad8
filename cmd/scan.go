package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgprint-cli/internal/manifest"
	"github.com/AnyUserName/imgprint-cli/internal/pipeline"
	"github.com/AnyUserName/imgprint-cli/internal/store"
)

var (
	scanOutDir     string
	scanProfile    string
	scanFilter     string
	scanAlgos      []string
	scanWorkers    int
	scanThumbnails []string
	scanCache      string
)

var scanCmd = &cobra.Command{
	Use:   "scan <input_dir>",
	Short: "Fingerprint every image in a directory and write a manifest",
	Long: `Walks the input directory for images (png, jpg, jpeg, gif, bmp, tiff, webp),
computes their fingerprints in parallel and writes imgprint.manifest.json
to the output directory.

With --thumbnails the 8x8 and 9x8 grayscale thumbnails each fingerprint was
computed from are written under <out>/thumbs for inspection. With --cache,
results are stored by file content and reused on the next scan.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanOutDir, "out", "o", "./imgprint_out", "output directory")
	scanCmd.Flags().StringVarP(&scanProfile, "profile", "p", "default", "fingerprint profile")
	scanCmd.Flags().StringVarP(&scanFilter, "filter", "f", "", "resampling filter (overrides profile)")
	scanCmd.Flags().StringSliceVarP(&scanAlgos, "algo", "a", nil, "algorithms to compute (overrides profile)")
	scanCmd.Flags().IntVarP(&scanWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	scanCmd.Flags().StringSliceVar(&scanThumbnails, "thumbnails", nil, "dump thumbnails in these formats (png, jpeg)")
	scanCmd.Flags().StringVar(&scanCache, "cache", "", "fingerprint cache file (bbolt)")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	start := time.Now()

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(scanOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	prof, err := resolveProfile(scanProfile, scanFilter, scanAlgos)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("thumbnails") {
		prof.Thumbnails = scanThumbnails
	}

	log.Debug("scan",
		"input", absInput,
		"output", absOutput,
		"profile", prof.Name,
		"filter", prof.Filter.String(),
		"algorithms", prof.Algorithms)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var cache *store.Store
	if scanCache != "" {
		cache, err = store.Open(scanCache)
		if err != nil {
			return err
		}
		defer cache.Close()
	}

	p := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Profile:   prof,
		Workers:   scanWorkers,
		Cache:     cache,
		Logger:    log,
	})

	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if cache != nil {
		m.BuildInfo.Cache = scanCache
		if n, err := cache.Len(prof.CacheNamespace()); err != nil {
			log.Warn("cache size unavailable", "error", err)
		} else {
			m.BuildInfo.CacheEntries = n
		}
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printScanReport(m, time.Since(start))
	return nil
}

func printScanReport(m *manifest.Manifest, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║              imgprint scan complete              ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Images:      %d\n", s.TotalImages)
	fmt.Printf("  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Filter:      %s\n", m.Filter)
	if s.CacheHits > 0 {
		fmt.Printf("  Cache hits:  %d\n", s.CacheHits)
	}
	if s.TotalThumbnails > 0 {
		fmt.Printf("  Thumbnails:  %d\n", s.TotalThumbnails)
	}
	if s.Failed > 0 {
		fmt.Printf("  Failed:      %d\n", s.Failed)
	}
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:     %d\n", m.BuildInfo.Workers)
	}
	fmt.Println()

	// First 10 images by key.
	keys := sortedKeys(m)
	n := len(keys)
	if n > 10 {
		n = 10
	}
	if n > 0 {
		fmt.Printf("  First %d of %d:\n", n, len(keys))
		for _, k := range keys[:n] {
			img := m.Images[k]
			fmt.Printf("    %-40s ahash=%s dhash=%s\n",
				truncKey(k, 40), hashOrDash(img, "ahash"), hashOrDash(img, "dhash"))
		}
		fmt.Println()
	}

	data, _ := json.Marshal(m)
	fmt.Printf("  Manifest:    %s (%s)\n", manifest.FileName, formatBytes(int64(len(data))))
	fmt.Println()
}

func sortedKeys(m *manifest.Manifest) []string {
	keys := make([]string, 0, len(m.Images))
	for k := range m.Images {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func hashOrDash(img manifest.Image, algo string) string {
	if f, ok := img.Hashes[algo]; ok {
		return f.String()
	}
	return "-"
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
