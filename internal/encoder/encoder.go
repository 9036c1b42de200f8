package encoder

import (
	"errors"
	"image"
)

// ErrUnavailable is returned when a format's encoder is not installed.
var ErrUnavailable = errors.New("encoder unavailable")

// Encoder encodes a rendered placeholder to a specific format.
type Encoder interface {
	// Format returns the output format name (e.g. "jpeg", "webp", "avif", "png").
	Format() string

	// Encode converts the image to bytes at the given quality (1-100).
	// Lossless formats ignore quality.
	Encode(img image.Image, quality int) ([]byte, error)

	// Available returns true if the encoder is ready to use.
	// External encoders (cwebp, avifenc) may not be installed.
	Available() bool

	// Extension returns the file extension without dot.
	Extension() string
}

// DefaultQuality applies when a caller passes a quality outside 1-100.
const DefaultQuality = 82

func normQuality(q int) int {
	if q <= 0 || q > 100 {
		return DefaultQuality
	}
	return q
}
