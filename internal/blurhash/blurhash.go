// Package blurhash implements the BlurHash placeholder format: a truncated
// 2D DCT of an image in linear light, packed into a short base83 string.
//
// Encoding:  pixels → Compute / ComputeSeq / ComputeImage → (*Coefficients).Hash
// Decoding:  Decode → Render / RenderRGB / RenderRGBA / RenderARGB / RenderImage
//
// Design:
//   - pixel types opt in through AsLinear; outputs through a func(Linear) T
//   - one accumulator behind every encoder entry point, single pass
//   - per-axis cosine tables, pure multiply-add in the hot loops
//   - no shared mutable state; every call is independent
package blurhash

import (
	"errors"
	"fmt"
)

// MaxComponents is the largest component count per axis the size flag can
// express.
const MaxComponents = 9

var (
	ErrInvalidComponentCount = errors.New("blurhash: component count out of range [1, 9]")
	ErrInvalidDimensions     = errors.New("blurhash: width and height must be positive")
	ErrPixelCount            = errors.New("blurhash: fewer pixels than width*height")
	ErrInvalidLength         = errors.New("blurhash: invalid length")
	ErrInvalidCharacter      = errors.New("blurhash: invalid character")
	ErrInvalidPunch          = errors.New("blurhash: punch must be a non-negative number")
)

// ParseError describes a hash that could not be decoded.
type ParseError struct {
	Hash   string
	Offset int // byte offset of the offending field
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("blurhash: parse %q at offset %d: %v", e.Hash, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Coefficients is a grid of DCT coefficients, X columns by Y rows, stored
// row-major.  Values[0] is the DC term (the average colour); every other
// entry is an AC term.
type Coefficients struct {
	X, Y   int
	Values []Linear
}

// NewCoefficients allocates a zeroed x-by-y grid.
func NewCoefficients(x, y int) (*Coefficients, error) {
	if err := checkComponents(x, y); err != nil {
		return nil, err
	}
	return &Coefficients{X: x, Y: y, Values: make([]Linear, x*y)}, nil
}

// DC returns the average colour.
func (c *Coefficients) DC() Linear { return c.Values[0] }

// AC returns every coefficient but the DC term.
func (c *Coefficients) AC() []Linear { return c.Values[1:] }

// At returns coefficient (i, j): horizontal frequency i, vertical frequency j.
func (c *Coefficients) At(i, j int) Linear { return c.Values[j*c.X+i] }

// MaxAC returns the largest absolute channel value over all AC terms.
func (c *Coefficients) MaxAC() float32 {
	var m float32
	for _, v := range c.AC() {
		for _, ch := range v {
			if ch < 0 {
				ch = -ch
			}
			if ch > m {
				m = ch
			}
		}
	}
	return m
}

func checkComponents(x, y int) error {
	if x < 1 || x > MaxComponents || y < 1 || y > MaxComponents {
		return fmt.Errorf("%w: %dx%d", ErrInvalidComponentCount, x, y)
	}
	return nil
}
