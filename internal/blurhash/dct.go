package blurhash

import (
	"fmt"
	"image"
	"iter"
	"math"
)

// Compute returns the x-by-y DCT coefficients of a w-by-h image stored
// row-major in pixels.  Extra trailing pixels are ignored.
func Compute[P AsLinear](pixels []P, w, h, x, y int) (*Coefficients, error) {
	acc, err := newAccumulator(w, h, x, y)
	if err != nil {
		return nil, err
	}
	if len(pixels) < w*h {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrPixelCount, len(pixels), w*h)
	}
	for py := 0; py < h; py++ {
		row := pixels[py*w : (py+1)*w]
		for px, p := range row {
			acc.add(px, py, p.AsLinear())
		}
	}
	return acc.finish(), nil
}

// ComputeSeq is Compute over a single-pass sequence.  It consumes exactly
// w*h pixels and never buffers the image.
func ComputeSeq[P AsLinear](seq iter.Seq[P], w, h, x, y int) (*Coefficients, error) {
	acc, err := newAccumulator(w, h, x, y)
	if err != nil {
		return nil, err
	}
	total := w * h
	i := 0
	for p := range seq {
		acc.add(i%w, i/w, p.AsLinear())
		i++
		if i == total {
			break
		}
	}
	if i < total {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrPixelCount, i, total)
	}
	return acc.finish(), nil
}

// ComputeImage is Compute over an image.Image.
func ComputeImage(img image.Image, x, y int) (*Coefficients, error) {
	b := img.Bounds()
	acc, err := newAccumulator(b.Dx(), b.Dy(), x, y)
	if err != nil {
		return nil, err
	}
	forEachPixel(img, acc.add)
	return acc.finish(), nil
}

// accumulator sums basis-weighted colours for every coefficient at once.
// float64 sums keep large images from losing the low bits.
type accumulator struct {
	w, h, nx, ny int
	cosX         []float64 // cosX[i*w+x] = cos(π·i·x/w)
	cosY         []float64 // cosY[j*h+y] = cos(π·j·y/h)
	sums         [][3]float64
}

func newAccumulator(w, h, nx, ny int) (*accumulator, error) {
	if err := checkComponents(nx, ny); err != nil {
		return nil, err
	}
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}
	return &accumulator{
		w: w, h: h, nx: nx, ny: ny,
		cosX: cosTable(nx, w, 0),
		cosY: cosTable(ny, h, 0),
		sums: make([][3]float64, nx*ny),
	}, nil
}

// cosTable returns cos(π·k·(p+offset)/size) for k < n, p < size, laid out
// k-major.  A size of 1 yields a constant row of 1 at offset 0.
func cosTable(n, size int, offset float64) []float64 {
	t := make([]float64, n*size)
	for k := 0; k < n; k++ {
		s := math.Pi * float64(k) / float64(size)
		base := k * size
		for p := 0; p < size; p++ {
			t[base+p] = math.Cos(s * (float64(p) + offset))
		}
	}
	return t
}

func (a *accumulator) add(x, y int, c Linear) {
	r, g, b := float64(c[0]), float64(c[1]), float64(c[2])
	for j := 0; j < a.ny; j++ {
		fy := a.cosY[j*a.h+y]
		row := a.sums[j*a.nx : (j+1)*a.nx]
		for i := range row {
			basis := fy * a.cosX[i*a.w+x]
			row[i][0] += basis * r
			row[i][1] += basis * g
			row[i][2] += basis * b
		}
	}
}

// finish applies the normalisation: 1/(w·h) for DC, 2/(w·h) for every AC.
// An axis with a single sample carries no AC energy along it, so a 1x1
// image has only a DC term.
func (a *accumulator) finish() *Coefficients {
	c := &Coefficients{X: a.nx, Y: a.ny, Values: make([]Linear, len(a.sums))}
	n := float64(a.w * a.h)
	nx, ny := a.nx, a.ny
	if a.w == 1 {
		nx = 1
	}
	if a.h == 1 {
		ny = 1
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			k := j*a.nx + i
			scale := 2 / n
			if k == 0 {
				scale = 1 / n
			}
			s := a.sums[k]
			c.Values[k] = Linear{float32(s[0] * scale), float32(s[1] * scale), float32(s[2] * scale)}
		}
	}
	return c
}
