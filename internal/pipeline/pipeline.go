package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/AnyUserName/blurhash-cli/internal/encoder"
	"github.com/AnyUserName/blurhash-cli/internal/manifest"
	"github.com/AnyUserName/blurhash-cli/internal/profile"
)

// DefaultPreviewWidth is the preview render width when none is configured.
const DefaultPreviewWidth = 32

// Config holds all parameters for a build pipeline run.
type Config struct {
	InputDir  string
	OutputDir string
	Profile   profile.Profile
	Workers   int
	Verbose   bool

	// Previous is the manifest of an earlier build.  Assets whose source
	// content hash, working size and component grid are unchanged are
	// copied from it.
	Previous *manifest.Manifest

	PreviewFormat  string // "" disables preview rendering
	PreviewWidth   int
	PreviewQuality int
}

// Pipeline orchestrates placeholder generation.
type Pipeline struct {
	cfg      Config
	registry *encoder.Registry
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	cfg.PreviewFormat = encoder.NormalizeFormat(cfg.PreviewFormat)
	return &Pipeline{
		cfg:      cfg,
		registry: encoder.NewRegistry(),
	}
}

// Run executes the full build pipeline and returns the manifest.
func (p *Pipeline) Run() (*manifest.Manifest, error) {
	if p.cfg.Verbose && p.cfg.PreviewFormat != "" {
		fmt.Fprintf(os.Stderr, "[blurhash] %s\n", p.registry.String())
	}
	if p.cfg.PreviewFormat != "" && p.registry.Get(p.cfg.PreviewFormat) == nil {
		return nil, fmt.Errorf("preview format %q: %w", p.cfg.PreviewFormat, encoder.ErrUnavailable)
	}

	// Step 1: Scan for images.
	sources, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}

	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[blurhash] found %d images\n", len(sources))
	}

	// Step 2: Process images in parallel.
	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			results[idx] = processImage(s, p.cfg, p.cfg.Previous, p.registry)

			if p.cfg.Verbose && results[idx].err == nil {
				r := results[idx]
				state := "encoded"
				if r.cached {
					state = "cached"
				}
				fmt.Fprintf(os.Stderr, "[blurhash] %s: %s %s\n", state, s.Key, r.asset.BlurHash)
			}
		}(i, src)
	}
	wg.Wait()

	// Step 3: Collect results into manifest.
	m := manifest.New(p.cfg.Profile.Name)
	m.BasePath = basePath(p.cfg.InputDir, p.cfg.OutputDir)

	var errs []error
	var cached int
	for i, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		if _, dup := m.Assets[r.key]; dup {
			errs = append(errs, fmt.Errorf("%s: asset key %q already taken by another file", sources[i].RelPath, r.key))
			continue
		}
		m.Assets[r.key] = r.asset
		if r.cached {
			cached++
		}
	}

	// Report errors but don't fail the entire build for partial failures.
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "[blurhash] error: %v\n", e)
		}
		if len(errs) == len(sources) {
			return nil, fmt.Errorf("all %d images failed to process", len(errs))
		}
		fmt.Fprintf(os.Stderr, "[blurhash] warning: %d of %d images had errors\n",
			len(errs), len(sources))
	}

	m.BuildInfo = &manifest.BuildInfo{
		Workers: p.cfg.Workers,
		MaxSize: p.cfg.Profile.MaxSize,
		Cached:  cached,
	}
	m.ComputeStats()
	return m, nil
}

// basePath locates the input directory relative to the output directory,
// where the manifest lives.  Unrelated trees fall back to the input path.
func basePath(inputDir, outputDir string) string {
	rel, err := filepath.Rel(outputDir, inputDir)
	if err != nil {
		return filepath.ToSlash(inputDir)
	}
	return filepath.ToSlash(rel) + "/"
}
