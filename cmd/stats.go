package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgprint-cli/internal/manifest"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a scan manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	path := args[0]

	// If path is a directory, look for manifest inside.
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, manifest.FileName)
	}

	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}

	printStats(m)
	return nil
}

func printStats(m *manifest.Manifest) {
	fmt.Println()
	fmt.Printf("  Manifest version: %d\n", m.Version)
	fmt.Printf("  Generated:        %s\n", m.GeneratedAt)
	fmt.Printf("  Profile:          %s\n", m.Profile)
	fmt.Printf("  Filter:           %s\n", m.Filter)
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:          %d\n", m.BuildInfo.Workers)
		if m.BuildInfo.Cache != "" {
			fmt.Printf("  Cache:            %s (%d entries)\n", m.BuildInfo.Cache, m.BuildInfo.CacheEntries)
		}
	}
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Total images:     %d\n", s.TotalImages)
	fmt.Printf("  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Thumbnails:       %d\n", s.TotalThumbnails)
	fmt.Printf("  Cache hits:       %d\n", s.CacheHits)
	fmt.Printf("  Failed:           %d\n", s.Failed)
	fmt.Println()

	// Per-format breakdown.
	formatStats := map[string]struct {
		count int
		bytes int64
	}{}
	colorStats := map[string]int{}
	withAlpha := 0
	for _, img := range m.Images {
		if img.Original.HasAlpha {
			withAlpha++
		}
		fs := formatStats[img.Original.Format]
		fs.count++
		fs.bytes += img.Original.Size
		formatStats[img.Original.Format] = fs
		colorStats[img.Original.ColorSpace]++
	}

	fmt.Println("  Source formats:")
	formats := make([]string, 0, len(formatStats))
	for f := range formatStats {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	for _, f := range formats {
		fs := formatStats[f]
		fmt.Printf("    %-6s  %4d files  %s\n", f, fs.count, formatBytes(fs.bytes))
	}
	fmt.Println()

	fmt.Println("  Color spaces:")
	spaces := make([]string, 0, len(colorStats))
	for cs := range colorStats {
		spaces = append(spaces, cs)
	}
	sort.Strings(spaces)
	for _, cs := range spaces {
		fmt.Printf("    %-8s %4d images\n", cs, colorStats[cs])
	}
	fmt.Printf("  With alpha:       %d\n", withAlpha)
	fmt.Println()

	// Fingerprint coverage.
	coverage := map[string]int{}
	var warnings []string
	for key, img := range m.Images {
		for algo := range img.Hashes {
			coverage[algo]++
		}
		if len(img.Hashes) == 0 {
			warnings = append(warnings, fmt.Sprintf("image %q has no fingerprints", key))
		}
	}
	for _, algo := range []string{"ahash", "dhash"} {
		fmt.Printf("  %s coverage: %d / %d images\n", algo, coverage[algo], len(m.Images))
	}
	sort.Strings(warnings)

	if len(warnings) > 0 {
		fmt.Println()
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
	}
	fmt.Println()
}
