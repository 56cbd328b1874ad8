package pipeline

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory.
	RelPath string
	// Key is the image key (relpath without extension).
	Key string
	// Format is the format implied by the extension.
	Format string
	// Size is the file size in bytes.
	Size int64
}

// imageExtensions maps recognized extensions to format names.
var imageExtensions = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".webp": "webp",
	".gif":  "gif",
	".bmp":  "bmp",
	".tiff": "tiff",
	".tif":  "tiff",
}

// ScanImages walks the input directory and returns all image sources in
// lexical order. Hidden directories and any directory listed in skip are
// not entered. Keys are unique: sources whose extensionless keys collide
// (photo.png, photo.gif) are keyed by their full relative path instead.
func ScanImages(inputDir string, skip ...string) ([]Source, error) {
	var sources []Source

	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != inputDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			for _, s := range skip {
				if s != "" && path == s && path != inputDir {
					return filepath.SkipDir
				}
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		format, ok := imageExtensions[ext]
		if !ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}

		// Key: relative path without extension, using forward slashes.
		key := filepath.ToSlash(strings.TrimSuffix(relPath, filepath.Ext(relPath)))

		sources = append(sources, Source{
			AbsPath: path,
			RelPath: filepath.ToSlash(relPath),
			Key:     key,
			Format:  format,
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	uniqueKeys(sources)
	return sources, nil
}

// uniqueKeys rekeys colliding sources by RelPath until every key is
// distinct. RelPaths are unique, so this terminates.
func uniqueKeys(sources []Source) {
	for {
		owners := make(map[string][]int, len(sources))
		for i, s := range sources {
			owners[s.Key] = append(owners[s.Key], i)
		}
		changed := false
		for _, idx := range owners {
			if len(idx) < 2 {
				continue
			}
			for _, i := range idx {
				if sources[i].Key != sources[i].RelPath {
					sources[i].Key = sources[i].RelPath
					changed = true
				}
			}
		}
		if !changed {
			return
		}
	}
}
