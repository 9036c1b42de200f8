package pipeline

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"

	"github.com/AnyUserName/blurhash-cli/internal/blurhash"
	"github.com/AnyUserName/blurhash-cli/internal/encoder"
	"github.com/AnyUserName/blurhash-cli/internal/hasher"
	"github.com/AnyUserName/blurhash-cli/internal/manifest"
	"github.com/AnyUserName/blurhash-cli/internal/profile"
	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// PreviewDir is the output subdirectory holding rendered placeholders.
const PreviewDir = "_previews"

// Placeholder is the encoded form of one decoded image.
type Placeholder struct {
	Hash          string
	Coefficients  *blurhash.Coefficients
	Width, Height int // original dimensions
}

// AvgColor is the DC term as 8-bit sRGB.
func (p Placeholder) AvgColor() [3]uint8 {
	return blurhash.ToRGB(p.Coefficients.DC())
}

// DecodeFile opens and decodes an image file in any registered format.
func DecodeFile(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	return img, format, nil
}

// Prepare box-filters img down to the profile's working size.  Images
// already within it are returned as is.
func Prepare(img image.Image, p profile.Profile) image.Image {
	b := img.Bounds()
	w, h := p.WorkingSize(b.Dx(), b.Dy())
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Box)
}

// Encode computes the placeholder of img under profile p.
func Encode(img image.Image, p profile.Profile) (Placeholder, error) {
	b := img.Bounds()
	x, y := p.Components(b.Dx(), b.Dy())
	c, err := blurhash.ComputeImage(Prepare(img, p), x, y)
	if err != nil {
		return Placeholder{}, err
	}
	hash, err := c.Hash()
	if err != nil {
		return Placeholder{}, err
	}
	return Placeholder{Hash: hash, Coefficients: c, Width: b.Dx(), Height: b.Dy()}, nil
}

// processResult holds the result of processing a single source image.
type processResult struct {
	key    string
	asset  manifest.Asset
	cached bool
	err    error
}

// processImage handles a single source image: hash, reuse or decode,
// encode, optional preview.
func processImage(src Source, cfg Config, prev *manifest.Manifest, registry *encoder.Registry) processResult {
	result := processResult{key: src.Key}

	data, err := os.ReadFile(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("read %s: %w", src.RelPath, err)
		return result
	}
	contentHash := hasher.ContentHash(data, hasher.HexLen)

	var ph Placeholder
	if a, c, ok := reusable(prev, src, contentHash, cfg.Profile); ok {
		result.asset = a
		result.cached = true
		ph = Placeholder{Hash: a.BlurHash, Coefficients: c, Width: a.Original.Width, Height: a.Original.Height}
		if cfg.PreviewFormat == "" || previewExists(cfg.OutputDir, a.Preview) {
			return result
		}
	} else {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			result.err = fmt.Errorf("decode %s: %w", src.RelPath, err)
			return result
		}
		ph, err = Encode(img, cfg.Profile)
		if err != nil {
			result.err = fmt.Errorf("blurhash %s: %w", src.RelPath, err)
			return result
		}

		avg := ph.AvgColor()
		result.asset = manifest.Asset{
			Original: manifest.OriginalInfo{
				Width:  ph.Width,
				Height: ph.Height,
				Format: src.Format,
				Size:   src.Size,
				Path:   src.RelPath,
			},
			ContentHash: contentHash,
			BlurHash:    ph.Hash,
			ComponentsX: ph.Coefficients.X,
			ComponentsY: ph.Coefficients.Y,
			AspectRatio: float64(ph.Width) / float64(ph.Height),
			AvgColor:    &avg,
		}
	}

	result.asset.Preview = ""
	if cfg.PreviewFormat != "" {
		rel, err := writePreview(src.Key, ph, cfg, registry)
		if err != nil {
			// A failed preview leaves the placeholder itself valid.
			if cfg.Verbose {
				fmt.Fprintf(os.Stderr, "[blurhash] warn: preview %s: %v\n", src.Key, err)
			}
		} else {
			result.asset.Preview = rel
		}
	}

	return result
}

// reusable returns the previous manifest's asset for src when the source
// bytes, the working size and the component grid the profile would pick
// are unchanged, together with the coefficients decoded from its hash.
func reusable(prev *manifest.Manifest, src Source, contentHash string, p profile.Profile) (manifest.Asset, *blurhash.Coefficients, bool) {
	if prev == nil || prev.BuildInfo == nil || prev.BuildInfo.MaxSize != p.MaxSize {
		return manifest.Asset{}, nil, false
	}
	a, ok := prev.Assets[src.Key]
	if !ok || a.Original.Path != src.RelPath {
		return manifest.Asset{}, nil, false
	}
	x, y := p.Components(a.Original.Width, a.Original.Height)
	if hasher.CacheKey(a.ContentHash, a.ComponentsX, a.ComponentsY) != hasher.CacheKey(contentHash, x, y) {
		return manifest.Asset{}, nil, false
	}
	// A hand-edited manifest is re-validated before reuse.
	c, err := blurhash.Decode(a.BlurHash, 1)
	if err != nil || c.X != a.ComponentsX || c.Y != a.ComponentsY {
		return manifest.Asset{}, nil, false
	}
	a.Original.Size = src.Size
	return a, c, true
}

func previewExists(outputDir, rel string) bool {
	if rel == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(outputDir, filepath.FromSlash(rel)))
	return err == nil
}

// writePreview renders the placeholder at PreviewWidth, keeping the
// original aspect ratio, and writes it under OutputDir/PreviewDir.
func writePreview(key string, ph Placeholder, cfg Config, registry *encoder.Registry) (string, error) {
	enc := registry.Get(cfg.PreviewFormat)
	if enc == nil {
		return "", fmt.Errorf("%w: %s", encoder.ErrUnavailable, cfg.PreviewFormat)
	}

	w := cfg.PreviewWidth
	if w <= 0 {
		w = DefaultPreviewWidth
	}
	h := max(1, int(float64(w)*float64(ph.Height)/float64(ph.Width)+0.5))

	// Render from the hash so fresh and cached assets preview identically.
	punch := cfg.Profile.Punch
	if punch <= 0 {
		punch = 1
	}
	c, err := blurhash.Decode(ph.Hash, punch)
	if err != nil {
		return "", err
	}
	data, err := enc.Encode(blurhash.RenderImage(c, w, h), cfg.PreviewQuality)
	if err != nil {
		return "", err
	}

	rel := path.Join(PreviewDir, key+"."+enc.Extension())
	out := filepath.Join(cfg.OutputDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", rel, err)
	}
	return rel, nil
}
