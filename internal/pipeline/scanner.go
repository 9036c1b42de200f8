package pipeline

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/AnyUserName/blurhash-cli/internal/encoder"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory.
	RelPath string
	// Key is the asset key (relpath without extension).
	Key string
	// Format is the source format (png, jpeg, webp, gif, bmp, tiff).
	Format string
	// Size is the file size in bytes.
	Size int64
}

// imageExtensions lists recognized image file extensions.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// ScanImages walks the input directory and returns all image sources
// sorted by key.  Hidden directories and files are skipped, as is the
// preview directory of a previous build.
func ScanImages(inputDir string) ([]Source, error) {
	var sources []Source

	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != inputDir && (strings.HasPrefix(name, ".") || name == PreviewDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !imageExtensions[ext] {
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

		sources = append(sources, Source{
			AbsPath: path,
			RelPath: filepath.ToSlash(relPath),
			// Key: relative path without extension, using forward slashes.
			Key:    filepath.ToSlash(strings.TrimSuffix(relPath, filepath.Ext(relPath))),
			Format: encoder.NormalizeFormat(ext),
			Size:   info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(sources, func(a, b Source) int { return strings.Compare(a.Key, b.Key) })
	return sources, nil
}
