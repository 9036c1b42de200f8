package manifest

// Manifest is the top-level output of a blurhash build.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	BasePath    string           `json:"base_path"` // source tree, relative to the manifest
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Assets      map[string]Asset `json:"assets"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures build-time parameters for diagnostics.
type BuildInfo struct {
	Workers int `json:"workers"`
	MaxSize int `json:"max_size"`         // long-edge working size, 0 = original
	Cached  int `json:"cached,omitempty"` // assets reused from a previous manifest
}

// Asset describes a single source image and its placeholder.
type Asset struct {
	Original    OriginalInfo `json:"original"`
	ContentHash string       `json:"content_hash"` // xxhash64 of the source file, hex
	BlurHash    string       `json:"blurhash"`
	ComponentsX int          `json:"components_x"`
	ComponentsY int          `json:"components_y"`
	AspectRatio float64      `json:"aspect_ratio"`        // width / height
	AvgColor    *[3]uint8    `json:"avg_color,omitempty"` // [R,G,B] 0–255, the hash's DC term
	Preview     string       `json:"preview,omitempty"`   // rendered placeholder, relative to the manifest
}

// OriginalInfo holds metadata about the source image.
type OriginalInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
	Path   string `json:"path"` // relative to base_path
}

// Stats aggregates build metrics.
type Stats struct {
	TotalInputBytes int64          `json:"total_input_bytes"`
	TotalAssets     int            `json:"total_assets"`
	TotalHashBytes  int            `json:"total_hash_bytes"`
	Grids           map[string]int `json:"grids,omitempty"` // "XxY" → asset count
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// FileName is the manifest's name inside a build output directory.
const FileName = "blurhash.manifest.json"
