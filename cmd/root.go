package cmd

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgprint-cli/internal/logger"
)

var (
	version = "0.1.0"
	verbose bool
	log     = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "imgprint",
	Short: "Perceptual fingerprints (average hash, difference hash) for images",
	Long: `imgprint computes 64-bit perceptual fingerprints of raster images.

Each image is converted to 8-bit grayscale, shrunk to a tiny thumbnail
(8x8 for ahash, 9x8 for dhash) and turned into bits: ahash compares every
pixel against the mean brightness, dhash compares every pixel against its
right neighbour. Near-duplicate images end up with fingerprints a small
Hamming distance apart.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		log = logger.Setup(verbose)
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		log.Error(err.Error())
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"imgprint %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}
