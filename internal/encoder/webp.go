package encoder

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"
)

// Atomic counter for unique temp file names across goroutines.
var tempCounter atomic.Int64

// externalEncoder shells out to a command-line encoder that reads a PNG
// file and writes its output to another file.  This avoids CGO.
type externalEncoder struct {
	format  string
	tool    string
	install string
	args    func(quality int, src, dst string) []string

	once      sync.Once
	available bool
	toolPath  string
}

func (e *externalEncoder) Format() string    { return e.format }
func (e *externalEncoder) Extension() string { return e.format }

func (e *externalEncoder) Available() bool {
	e.once.Do(func() {
		path, err := exec.LookPath(e.tool)
		if err == nil {
			e.available = true
			e.toolPath = path
		}
	})
	return e.available
}

func (e *externalEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if !e.Available() {
		return nil, fmt.Errorf("%w: %s not found in PATH; install with: %s", ErrUnavailable, e.tool, e.install)
	}

	// Use atomic counter to ensure unique filenames across goroutines.
	id := tempCounter.Add(1)
	srcFile, err := os.CreateTemp("", fmt.Sprintf("blurhash_%s_src_%d_*.png", e.format, id))
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	srcPath := srcFile.Name()
	defer os.Remove(srcPath)

	dstFile, err := os.CreateTemp("", fmt.Sprintf("blurhash_%s_dst_%d_*.%s", e.format, id, e.format))
	if err != nil {
		srcFile.Close()
		return nil, fmt.Errorf("create temp: %w", err)
	}
	dstPath := dstFile.Name()
	dstFile.Close()
	defer os.Remove(dstPath)

	if err := png.Encode(srcFile, img); err != nil {
		srcFile.Close()
		return nil, fmt.Errorf("encode temp png: %w", err)
	}
	if err := srcFile.Close(); err != nil {
		return nil, fmt.Errorf("close temp png: %w", err)
	}

	cmd := exec.Command(e.toolPath, e.args(normQuality(quality), srcPath, dstPath)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", e.tool, err, string(out))
	}

	return os.ReadFile(dstPath)
}

// NewWebPEncoder encodes images to WebP with cwebp.
// Install: brew install webp / apt install webp
func NewWebPEncoder() Encoder {
	return &externalEncoder{
		format:  "webp",
		tool:    "cwebp",
		install: "brew install webp",
		args: func(q int, src, dst string) []string {
			return []string{
				"-q", strconv.Itoa(q),
				"-m", "6", // compression method (0=fast, 6=best)
				"-quiet",
				src,
				"-o", dst,
			}
		},
	}
}

// NewAVIFEncoder encodes images to AVIF with avifenc.
// Install: brew install libavif / apt install libavif-bin
func NewAVIFEncoder() Encoder {
	return &externalEncoder{
		format:  "avif",
		tool:    "avifenc",
		install: "brew install libavif",
		args: func(q int, src, dst string) []string {
			// avifenc uses a different quality scale: lower = better, 0-63.
			avifQ := strconv.Itoa(63 - (q * 63 / 100))
			return []string{
				"--min", avifQ,
				"--max", avifQ,
				"--speed", "6", // 0=slowest, 10=fastest
				src,
				dst,
			}
		},
	}
}
