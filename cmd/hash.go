package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgprint-cli/internal/canvas"
	"github.com/AnyUserName/imgprint-cli/internal/phash"
	"github.com/AnyUserName/imgprint-cli/internal/profile"
	"github.com/AnyUserName/imgprint-cli/internal/source"
)

var (
	hashProfile string
	hashFilter  string
	hashAlgos   []string
	hashJSON    bool
)

var hashCmd = &cobra.Command{
	Use:   "hash <image>...",
	Short: "Print the fingerprints of one or more image files",
	Long: `Decodes each file (png, jpeg, gif, bmp, tiff, webp) and prints its
fingerprints as 16 hex digits, one line per file:

  <ahash> <dhash>  <path>

Files that fail are reported on stderr; the command exits non-zero if any
file failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHash,
}

func init() {
	hashCmd.Flags().StringVarP(&hashProfile, "profile", "p", "default", "fingerprint profile ("+strings.Join(profile.Names(), ", ")+")")
	hashCmd.Flags().StringVarP(&hashFilter, "filter", "f", "", "resampling filter (overrides profile: "+strings.Join(canvas.Filters(), ", ")+")")
	hashCmd.Flags().StringSliceVarP(&hashAlgos, "algo", "a", nil, "algorithms to compute (ahash, dhash; default: profile)")
	hashCmd.Flags().BoolVar(&hashJSON, "json", false, "print JSON lines instead of text")
	rootCmd.AddCommand(hashCmd)
}

// hashLine is one --json output record.
type hashLine struct {
	Path   string                       `json:"path"`
	Width  int                          `json:"width"`
	Height int                          `json:"height"`
	Hashes map[string]phash.Fingerprint `json:"hashes"`
}

func runHash(cmd *cobra.Command, args []string) error {
	prof, err := resolveProfile(hashProfile, hashFilter, hashAlgos)
	if err != nil {
		return err
	}
	log.Debug("hash", "profile", prof.Name, "filter", prof.Filter.String(), "algorithms", prof.Algorithms)

	h := phash.New(canvas.NewRaster(prof.Filter))
	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)

	var failed int
	for _, path := range args {
		img, _, err := source.Open(path)
		if err != nil {
			log.Error("decode failed", "path", path, "error", err)
			failed++
			continue
		}
		res, err := h.Fingerprints(img, prof.Algorithms...)
		if err != nil {
			log.Error("fingerprint failed", "path", path, "error", err)
			failed++
			continue
		}

		if hashJSON {
			line := hashLine{Path: filepath.ToSlash(path), Width: res.Width, Height: res.Height,
				Hashes: make(map[string]phash.Fingerprint, len(res.Hashes))}
			for a, f := range res.Hashes {
				line.Hashes[string(a)] = f
			}
			if err := enc.Encode(line); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			continue
		}

		fields := make([]string, 0, len(prof.Algorithms))
		for _, a := range prof.Algorithms {
			fields = append(fields, res.Hashes[a].String())
		}
		fmt.Fprintf(out, "%s  %s\n", strings.Join(fields, " "), path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

// resolveProfile loads a profile and applies flag overrides.
func resolveProfile(name, filter string, algos []string) (profile.Profile, error) {
	if !profile.Known(name) {
		log.Warn("unknown profile, using default settings", "profile", name)
	}
	prof := profile.Get(name)
	if filter != "" {
		f, err := canvas.ParseFilter(filter)
		if err != nil {
			return prof, err
		}
		prof.Filter = f
	}
	if len(algos) > 0 {
		prof.Algorithms = nil
		for _, s := range algos {
			a, err := phash.ParseAlgorithm(strings.ToLower(strings.TrimSpace(s)))
			if err != nil {
				return prof, err
			}
			prof.Algorithms = append(prof.Algorithms, a)
		}
	}
	return prof, nil
}
