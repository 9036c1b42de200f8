package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/AnyUserName/blurhash-cli/internal/manifest"
	"github.com/AnyUserName/blurhash-cli/internal/pipeline"
	"github.com/AnyUserName/blurhash-cli/internal/profile"
	"github.com/spf13/cobra"
)

var (
	buildOutDir         string
	buildProfile        string
	buildWorkers        int
	buildMaxSize        int
	buildCache          bool
	buildPreview        string
	buildPreviewWidth   int
	buildPreviewQuality int
)

var buildCmd = &cobra.Command{
	Use:   "build <input_dir>",
	Short: "Compute placeholders for a directory of images and write a manifest",
	Long: `Scans input directory for images (png, jpg, jpeg, webp, gif, bmp, tiff),
computes a BlurHash for each one and writes blurhash.manifest.json to the
output directory.

With --cache, assets whose source bytes (xxhash64) and component grid are
unchanged since the previous manifest are reused without decoding.
With --preview <format>, each placeholder is also rendered to
<out>/_previews/<key>.<ext>.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutDir, "out", "o", "./blurhash_out", "output directory")
	buildCmd.Flags().StringVarP(&buildProfile, "profile", "p", "default", "encoding profile ("+strings.Join(profile.Names(), ", ")+")")
	buildCmd.Flags().IntVarP(&buildWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	buildCmd.Flags().IntVar(&buildMaxSize, "max-size", -1, "long-edge working size (0 = original, -1 = profile)")
	buildCmd.Flags().BoolVar(&buildCache, "cache", false, "reuse unchanged assets from the existing manifest")
	buildCmd.Flags().StringVar(&buildPreview, "preview", "", "render previews in this format (png, jpeg, webp, avif)")
	buildCmd.Flags().IntVar(&buildPreviewWidth, "preview-width", pipeline.DefaultPreviewWidth, "preview width in pixels")
	buildCmd.Flags().IntVar(&buildPreviewQuality, "preview-quality", 0, "preview quality 1-100 (0 = encoder default)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	start := time.Now()

	// Resolve absolute paths.
	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(buildOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	// Load profile.
	prof := profile.Get(buildProfile)
	if buildMaxSize >= 0 {
		prof.MaxSize = buildMaxSize
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (components=%dx%d, auto=%v, max-size=%d)",
		prof.Name, prof.X, prof.Y, prof.Auto, prof.MaxSize)

	// Create output dir.
	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	manifestPath := filepath.Join(absOutput, manifest.FileName)

	var prev *manifest.Manifest
	if buildCache {
		prev, err = manifest.ReadJSON(manifestPath)
		switch {
		case err == nil:
			logVerbose("cache:   %d assets in previous manifest", len(prev.Assets))
		case errors.Is(err, fs.ErrNotExist):
			logVerbose("cache:   no previous manifest")
		default:
			// An unreadable manifest only costs a full rebuild.
			fmt.Fprintf(os.Stderr, "[blurhash] warning: ignoring previous manifest: %v\n", err)
		}
	}

	// Run pipeline.
	p := pipeline.New(pipeline.Config{
		InputDir:       absInput,
		OutputDir:      absOutput,
		Profile:        prof,
		Workers:        buildWorkers,
		Verbose:        verbose,
		Previous:       prev,
		PreviewFormat:  buildPreview,
		PreviewWidth:   buildPreviewWidth,
		PreviewQuality: buildPreviewQuality,
	})

	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	// Write manifest.
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printBuildReport(m, time.Since(start))
	return nil
}

func printBuildReport(m *manifest.Manifest, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║             blurhash build complete              ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	stats := m.Stats
	fmt.Printf("  Assets:      %d\n", stats.TotalAssets)
	fmt.Printf("  Input size:  %s\n", formatBytes(stats.TotalInputBytes))
	fmt.Printf("  Hash bytes:  %s\n", formatBytes(int64(stats.TotalHashBytes)))
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:     %d\n", m.BuildInfo.Workers)
		if m.BuildInfo.Cached > 0 {
			fmt.Printf("  Cached:      %d of %d assets\n", m.BuildInfo.Cached, stats.TotalAssets)
		}
	}
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	fmt.Println()

	// Component grids in use.
	if len(stats.Grids) > 0 {
		grids := make([]string, 0, len(stats.Grids))
		for g := range stats.Grids {
			grids = append(grids, g)
		}
		sort.Strings(grids)
		fmt.Println("  Grids:")
		for _, g := range grids {
			fmt.Printf("    %-5s  %4d assets\n", g, stats.Grids[g])
		}
		fmt.Println()
	}

	// Top 10 largest sources.
	if len(m.Assets) > 0 {
		keys := make([]string, 0, len(m.Assets))
		for key := range m.Assets {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool {
			return m.Assets[keys[i]].Original.Size > m.Assets[keys[j]].Original.Size
		})
		n := min(len(keys), 10)
		fmt.Printf("  Top %d largest sources:\n", n)
		for _, key := range keys[:n] {
			a := m.Assets[key]
			fmt.Printf("    %-40s %8s  %s\n", truncKey(key, 40), formatBytes(a.Original.Size), a.BlurHash)
		}
		fmt.Println()
	}

	// Manifest path.
	data, _ := json.Marshal(m)
	fmt.Printf("  Manifest:    %s (%s)\n", manifest.FileName, formatBytes(int64(len(data))))
	fmt.Println()
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
