package cmd

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/blurhash-cli/internal/blurhash"
	"github.com/AnyUserName/blurhash-cli/internal/hasher"
	"github.com/AnyUserName/blurhash-cli/internal/manifest"
	"github.com/spf13/cobra"
)

var validateSources bool

var validateCmd = &cobra.Command{
	Use:   "validate <manifest_path>",
	Short: "Validate a blurhash manifest and its source files",
	Long: `Decodes every hash in the manifest, checks it against the recorded
component grid and average colour, and checks stats consistency.

Unless --sources=false, each source file is also located through base_path
and its xxhash64 compared with content_hash.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateSources, "sources", true, "check source files and content hashes")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	manifestPath, err := resolveManifestPath(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.ReadJSON(manifestPath)
	if err != nil {
		return err
	}

	errs := validateManifest(m, filepath.Dir(manifestPath), validateSources)

	if len(errs) == 0 {
		fmt.Println("  ✓ Manifest is valid")
		fmt.Printf("  ✓ %d assets, all hashes decode\n", len(m.Assets))
		return nil
	}

	fmt.Printf("  ✗ Manifest has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

func validateManifest(m *manifest.Manifest, baseDir string, checkSources bool) []string {
	var errs []string

	// Check version.
	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	keys := make([]string, 0, len(m.Assets))
	for key := range m.Assets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	srcRoot := filepath.Join(baseDir, filepath.FromSlash(m.BasePath))
	for _, key := range keys {
		errs = append(errs, validateAsset(key, m.Assets[key], baseDir, srcRoot, checkSources)...)
	}

	// Verify stats consistency.
	hashBytes := 0
	for _, a := range m.Assets {
		hashBytes += len(a.BlurHash)
	}
	if m.Stats.TotalAssets != len(m.Assets) {
		errs = append(errs, fmt.Sprintf("stats.total_assets mismatch: %d != %d", m.Stats.TotalAssets, len(m.Assets)))
	}
	if m.Stats.TotalHashBytes != hashBytes {
		errs = append(errs, fmt.Sprintf("stats.total_hash_bytes mismatch: %d != %d", m.Stats.TotalHashBytes, hashBytes))
	}

	return errs
}

func validateAsset(key string, a manifest.Asset, baseDir, srcRoot string, checkSources bool) []string {
	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf("asset %q: ", key)+fmt.Sprintf(format, args...))
	}

	// Check original dimensions.
	if a.Original.Width <= 0 || a.Original.Height <= 0 {
		fail("invalid original dimensions %dx%d", a.Original.Width, a.Original.Height)
	} else if want := float64(a.Original.Width) / float64(a.Original.Height); math.Abs(a.AspectRatio-want) > 1e-3 {
		fail("aspect ratio %.4f, dimensions give %.4f", a.AspectRatio, want)
	}

	// Check the hash itself.
	if a.BlurHash == "" {
		fail("missing blurhash")
	} else if c, err := blurhash.Decode(a.BlurHash, 1); err != nil {
		fail("%v", err)
	} else {
		if c.X != a.ComponentsX || c.Y != a.ComponentsY {
			fail("hash grid %dx%d, manifest says %dx%d", c.X, c.Y, a.ComponentsX, a.ComponentsY)
		}
		if a.AvgColor != nil && blurhash.ToRGB(c.DC()) != *a.AvgColor {
			fail("avg_color %v does not match hash DC %v", *a.AvgColor, blurhash.ToRGB(c.DC()))
		}
	}

	if a.Preview != "" {
		if _, err := os.Stat(filepath.Join(baseDir, filepath.FromSlash(a.Preview))); err != nil {
			fail("preview not found: %s", a.Preview)
		}
	}

	if !checkSources {
		return errs
	}
	if a.Original.Path == "" {
		fail("missing source path")
		return errs
	}
	srcPath := filepath.Join(srcRoot, filepath.FromSlash(a.Original.Path))
	info, err := os.Stat(srcPath)
	if err != nil {
		fail("source not found: %s", a.Original.Path)
		return errs
	}
	if a.Original.Size > 0 && info.Size() != a.Original.Size {
		fail("size mismatch: manifest=%d, disk=%d", a.Original.Size, info.Size())
	}
	sum, err := hasher.FileHash(srcPath, hasher.HexLen)
	if err != nil {
		fail("%v", err)
	} else if sum != a.ContentHash {
		fail("content hash mismatch: manifest=%s, disk=%s (source changed since build)", a.ContentHash, sum)
	}
	return errs
}
