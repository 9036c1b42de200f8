package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/blurhash-cli/internal/blurhash"
	"github.com/AnyUserName/blurhash-cli/internal/manifest"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a built manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// resolveManifestPath accepts a manifest file or a build output directory.
func resolveManifestPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return filepath.Join(path, manifest.FileName), nil
	}
	return path, nil
}

func runStats(_ *cobra.Command, args []string) error {
	path, err := resolveManifestPath(args[0])
	if err != nil {
		return err
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
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:          %d\n", m.BuildInfo.Workers)
		fmt.Printf("  Working size:     %d px\n", m.BuildInfo.MaxSize)
		fmt.Printf("  Cached:           %d\n", m.BuildInfo.Cached)
	}
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Total assets:     %d\n", s.TotalAssets)
	fmt.Printf("  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Hash bytes:       %s\n", formatBytes(int64(s.TotalHashBytes)))
	if s.TotalAssets > 0 {
		fmt.Printf("  Avg hash length:  %.1f chars\n", float64(s.TotalHashBytes)/float64(s.TotalAssets))
	}
	fmt.Println()

	// Per-format breakdown of sources.
	formatStats := map[string]struct {
		count int
		bytes int64
	}{}
	for _, a := range m.Assets {
		fs := formatStats[a.Original.Format]
		fs.count++
		fs.bytes += a.Original.Size
		formatStats[a.Original.Format] = fs
	}
	formats := make([]string, 0, len(formatStats))
	for f := range formatStats {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	fmt.Println("  Source formats:")
	for _, f := range formats {
		fs := formatStats[f]
		fmt.Printf("    %-6s  %4d files  %s\n", f, fs.count, formatBytes(fs.bytes))
	}
	fmt.Println()

	// Per-grid breakdown, read from the hashes themselves.
	grids := map[string]int{}
	var warnings []string
	previews := 0
	for key, a := range m.Assets {
		if a.Preview != "" {
			previews++
		}
		if a.BlurHash == "" {
			warnings = append(warnings, fmt.Sprintf("asset %q missing blurhash", key))
			continue
		}
		x, y, err := blurhash.Components(a.BlurHash)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("asset %q: %v", key, err))
			continue
		}
		grids[manifest.GridKey(x, y)]++
		if x != a.ComponentsX || y != a.ComponentsY {
			warnings = append(warnings, fmt.Sprintf("asset %q: hash grid %dx%d, manifest says %dx%d",
				key, x, y, a.ComponentsX, a.ComponentsY))
		}
	}
	keys := make([]string, 0, len(grids))
	for g := range grids {
		keys = append(keys, g)
	}
	sort.Strings(keys)
	fmt.Println("  Grid breakdown:")
	for _, g := range keys {
		fmt.Printf("    %-5s  %4d assets\n", g, grids[g])
	}
	fmt.Println()
	fmt.Printf("  Preview coverage: %d / %d assets\n", previews, len(m.Assets))

	if len(warnings) > 0 {
		sort.Strings(warnings)
		fmt.Println()
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
	}
	fmt.Println()
}
