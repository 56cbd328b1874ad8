package cmd

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/imgprint-cli/internal/canvas"
	"github.com/AnyUserName/imgprint-cli/internal/manifest"
	"github.com/AnyUserName/imgprint-cli/internal/phash"
	"github.com/AnyUserName/imgprint-cli/internal/pipeline"
	"github.com/AnyUserName/imgprint-cli/internal/profile"
)

func writeChecker(t *testing.T, path string) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if (x/2+y/2)%2 == 1 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// scanned runs a debug-profile scan and returns the input dir, the output
// dir and the written manifest.
func scanned(t *testing.T) (string, string, *manifest.Manifest) {
	t.Helper()
	in, out := t.TempDir(), t.TempDir()
	writeChecker(t, filepath.Join(in, "a.png"))
	writeChecker(t, filepath.Join(in, "sub", "b.png"))

	m, err := pipeline.New(pipeline.Config{
		InputDir:  in,
		OutputDir: out,
		Profile:   profile.Get("debug"),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}).Run()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(out, manifest.FileName)
	if err := manifest.WriteJSON(m, path); err != nil {
		t.Fatal(err)
	}
	m, err = manifest.ReadJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	return in, out, m
}

func TestValidateManifest_Clean(t *testing.T) {
	in, out, m := scanned(t)
	if errs := validateManifest(m, out, in, true); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidateManifest_Detects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, in, out string, m *manifest.Manifest)
		want   string
	}{
		{"version", func(_ *testing.T, _, _ string, m *manifest.Manifest) {
			m.Version = 7
		}, "unsupported manifest version"},
		{"fingerprint", func(_ *testing.T, _, _ string, m *manifest.Manifest) {
			img := m.Images["a"]
			img.Hashes["ahash"] ^= 1
			m.Images["a"] = img
		}, "ahash not reproduced"},
		{"missing thumbnail", func(t *testing.T, _, out string, m *manifest.Manifest) {
			if err := os.Remove(filepath.Join(out, m.Images["sub/b"].Thumbnails[0].Path)); err != nil {
				t.Fatal(err)
			}
		}, "file not found"},
		{"source changed", func(t *testing.T, in, _ string, _ *manifest.Manifest) {
			if err := os.WriteFile(filepath.Join(in, "a.png"), []byte("changed"), 0o644); err != nil {
				t.Fatal(err)
			}
		}, "size mismatch"},
		{"stats", func(_ *testing.T, _, _ string, m *manifest.Manifest) {
			m.Stats.TotalImages = 9
		}, "stats.total_images"},
		{"no fingerprints", func(_ *testing.T, _, _ string, m *manifest.Manifest) {
			img := m.Images["a"]
			img.Hashes = nil
			m.Images["a"] = img
		}, "no fingerprints"},
		{"thumbnail geometry", func(_ *testing.T, _, _ string, m *manifest.Manifest) {
			img := m.Images["a"]
			img.Thumbnails[0].Width = 3
			m.Images["a"] = img
		}, "thumbnail is 3x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out, m := scanned(t)
			tt.mutate(t, in, out, m)
			errs := validateManifest(m, out, in, true)
			for _, e := range errs {
				if strings.Contains(e, tt.want) {
					return
				}
			}
			t.Errorf("no error containing %q in %v", tt.want, errs)
		})
	}
}

func TestValidateManifest_NoInput(t *testing.T) {
	in, out, m := scanned(t)
	if err := os.Remove(filepath.Join(in, "a.png")); err != nil {
		t.Fatal(err)
	}
	// Without --input, sources are not looked at.
	if errs := validateManifest(m, out, "", false); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestResolveProfile(t *testing.T) {
	p, err := resolveProfile("lanczos", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.Filter != canvas.FilterLanczos || len(p.Algorithms) != 2 {
		t.Errorf("profile = %+v", p)
	}

	p, err = resolveProfile("default", "Mitchell", []string{" DHASH "})
	if err != nil {
		t.Fatal(err)
	}
	if p.Filter != canvas.FilterMitchell {
		t.Errorf("filter = %s", p.Filter)
	}
	if len(p.Algorithms) != 1 || p.Algorithms[0] != phash.DHash {
		t.Errorf("algorithms = %v", p.Algorithms)
	}

	if _, err := resolveProfile("default", "sinc", nil); err == nil {
		t.Error("unknown filter accepted")
	}
	if _, err := resolveProfile("default", "", []string{"phash"}); err == nil {
		t.Error("unknown algorithm accepted")
	}
}

func TestHashFile(t *testing.T) {
	in, _, m := scanned(t)
	img := m.Images["sub/b"]
	got, n, err := hashFile(filepath.Join(in, filepath.FromSlash(img.Original.Path)))
	if err != nil {
		t.Fatal(err)
	}
	if got != img.ContentHash || n != img.Original.Size {
		t.Errorf("hashFile = %s, %d; manifest %s, %d", got, n, img.ContentHash, img.Original.Size)
	}
	if _, _, err := hashFile(filepath.Join(in, "missing.png")); err == nil {
		t.Error("missing file hashed")
	}
}
