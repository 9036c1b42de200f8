package blurhash

import (
	"fmt"
	"math"

	"github.com/AnyUserName/blurhash-cli/internal/base83"
)

// ── BlurHash string layout (base83 digits, most significant first) ──
//
//	offset 0     (1 digit):  size flag  = (x-1) + (y-1)*9        range [0, 80]
//	offset 1     (1 digit):  max AC     = q, scale (q+1)/166      range [0, 82]
//	offset 2–5   (4 digits): DC         = R<<16 | G<<8 | B (sRGB) range [0, 2^24)
//	offset 6…    (2 digits each): AC    = r*19*19 + g*19 + b      range [0, 6858]
//
// AC terms follow Values order: j (vertical frequency) outer, i inner.
// Each AC channel is quantised as floor(signPow(v/scale, 0.5)*9 + 9.5)
// clamped to [0, 18], and decoded as signPow((q-9)/9, 2)*scale.

const (
	acLevels    = 19
	maxACLevels = 166
)

// EncodedLen returns the hash length for an x-by-y grid.
func EncodedLen(x, y int) int {
	return 4 + 2*x*y
}

// Hash encodes c as a BlurHash string.
func (c *Coefficients) Hash() (string, error) {
	buf, err := c.AppendHash(make([]byte, 0, EncodedLen(c.X, c.Y)))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// AppendHash appends the BlurHash encoding of c to dst.
func (c *Coefficients) AppendHash(dst []byte) ([]byte, error) {
	if err := checkComponents(c.X, c.Y); err != nil {
		return dst, err
	}
	if len(c.Values) != c.X*c.Y {
		return dst, fmt.Errorf("%w: %d values for a %dx%d grid",
			ErrInvalidComponentCount, len(c.Values), c.X, c.Y)
	}

	dst = base83.AppendFixed(dst, uint32((c.X-1)+(c.Y-1)*MaxComponents), 1)

	var q uint32
	if m := c.MaxAC(); m > 0 {
		v := float32(m * maxACLevels)
		q = uint32(clampF(math.Floor(float64(float32(v-0.5))), 0, 82))
	}
	scale := float32(q+1) / maxACLevels
	dst = base83.AppendFixed(dst, q, 1)

	dst = base83.AppendFixed(dst, encodeDC(c.DC()), 4)
	for _, ac := range c.AC() {
		dst = base83.AppendFixed(dst, encodeAC(ac, scale), 2)
	}
	return dst, nil
}

// Components reads the component counts from a hash header and checks the
// hash length against them.  Characters past the header are not inspected.
func Components(hash string) (x, y int, err error) {
	if len(hash) == 0 {
		return 0, 0, &ParseError{Hash: hash, Err: ErrInvalidLength}
	}
	flag, err := base83.Decode(hash[:1])
	if err != nil {
		return 0, 0, &ParseError{Hash: hash, Err: ErrInvalidCharacter}
	}
	x = int(flag%MaxComponents) + 1
	y = int(flag/MaxComponents) + 1
	if y > MaxComponents {
		return 0, 0, &ParseError{Hash: hash, Err: fmt.Errorf("%w: size flag %d", ErrInvalidComponentCount, flag)}
	}
	if want := EncodedLen(x, y); len(hash) != want {
		return 0, 0, &ParseError{Hash: hash, Err: fmt.Errorf("%w: got %d, want %d for %dx%d",
			ErrInvalidLength, len(hash), want, x, y)}
	}
	return x, y, nil
}

// Decode parses a BlurHash string.  punch scales every AC term; 1 keeps the
// encoded contrast.  Decoding is all-or-nothing.
func Decode(hash string, punch float32) (*Coefficients, error) {
	if !(punch >= 0) || math.IsInf(float64(punch), 1) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPunch, punch)
	}
	for i := 0; i < len(hash); i++ {
		if !base83.Valid(hash[i]) {
			return nil, &ParseError{Hash: hash, Offset: i,
				Err: fmt.Errorf("%w %q", ErrInvalidCharacter, hash[i])}
		}
	}
	x, y, err := Components(hash)
	if err != nil {
		return nil, err
	}

	qMax, err := base83.Decode(hash[1:2])
	if err != nil {
		return nil, &ParseError{Hash: hash, Offset: 1, Err: err}
	}
	scale := float32(qMax+1) / maxACLevels * punch

	dc, err := base83.Decode(hash[2:6])
	if err != nil {
		return nil, &ParseError{Hash: hash, Offset: 2, Err: err}
	}

	c := &Coefficients{X: x, Y: y, Values: make([]Linear, x*y)}
	c.Values[0] = decodeDC(dc)
	for k := 1; k < len(c.Values); k++ {
		off := 6 + (k-1)*2
		v, err := base83.Decode(hash[off : off+2])
		if err != nil {
			return nil, &ParseError{Hash: hash, Offset: off, Err: err}
		}
		c.Values[k] = decodeAC(v, scale)
	}
	return c, nil
}

func encodeDC(c Linear) uint32 {
	return uint32(LinearToSRGB(c[0]))<<16 |
		uint32(LinearToSRGB(c[1]))<<8 |
		uint32(LinearToSRGB(c[2]))
}

func decodeDC(v uint32) Linear {
	return Linear{
		srgbToLinear[uint8(v>>16)],
		srgbToLinear[uint8(v>>8)],
		srgbToLinear[uint8(v)],
	}
}

func encodeAC(c Linear, scale float32) uint32 {
	return quantAC(c[0], scale)*acLevels*acLevels +
		quantAC(c[1], scale)*acLevels +
		quantAC(c[2], scale)
}

// quantAC rounds in float32 at every step so hashes match encoders that
// work in single precision.
func quantAC(v, scale float32) uint32 {
	s := signPow(float32(v/scale), 0.5)
	q := float32(float32(s*9) + 9.5)
	return uint32(clampF(math.Floor(float64(q)), 0, acLevels-1))
}

func decodeAC(v uint32, scale float32) Linear {
	return Linear{
		dequantAC((v/(acLevels*acLevels))%acLevels, scale),
		dequantAC((v/acLevels)%acLevels, scale),
		dequantAC(v%acLevels, scale),
	}
}

func dequantAC(q uint32, scale float32) float32 {
	return signPow((float32(q)-9)/9, 2) * scale
}

// signPow raises |x| to p and keeps the sign of x.
func signPow(x, p float32) float32 {
	return float32(math.Copysign(math.Pow(math.Abs(float64(x)), float64(p)), float64(x)))
}

// clampF also maps NaN to lo.
func clampF(v, lo, hi float64) float64 {
	if !(v > lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
