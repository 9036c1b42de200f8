package blurhash

import (
	"image"
)

// Render evaluates the inverse DCT at every pixel centre of a w-by-h image
// and maps each clamped linear colour through fn.  Output is row-major.
func Render[T any](c *Coefficients, w, h int, fn func(Linear) T) []T {
	if w <= 0 || h <= 0 {
		return nil
	}
	out := make([]T, 0, w*h)
	renderRows(c, w, h, func(_, _ int, col Linear) {
		out = append(out, fn(col))
	})
	return out
}

// RenderRGB renders 8-bit sRGB pixels.
func RenderRGB(c *Coefficients, w, h int) []RGB {
	return Render(c, w, h, ToRGB)
}

// RenderRGBA renders opaque 8-bit sRGBA pixels.
func RenderRGBA(c *Coefficients, w, h int) []RGBA {
	return Render(c, w, h, ToRGBA)
}

// RenderARGB renders opaque packed 0xAARRGGBB pixels.
func RenderARGB(c *Coefficients, w, h int) []ARGB {
	return Render(c, w, h, ToARGB)
}

// RenderImage renders into a new opaque *image.NRGBA.
func RenderImage(c *Coefficients, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	renderRows(c, w, h, func(x, y int, col Linear) {
		off := img.PixOffset(x, y)
		img.Pix[off] = LinearToSRGB(col[0])
		img.Pix[off+1] = LinearToSRGB(col[1])
		img.Pix[off+2] = LinearToSRGB(col[2])
		img.Pix[off+3] = 0xff
	})
	return img
}

// renderRows drives the inverse transform in row-major order.
func renderRows(c *Coefficients, w, h int, emit func(x, y int, col Linear)) {
	if w <= 0 || h <= 0 {
		return
	}
	nx, ny := c.X, c.Y
	cosX := cosTable(nx, w, 0.5)
	cosY := cosTable(ny, h, 0.5)

	// Per row, fold the vertical basis into one colour per horizontal
	// frequency, then the per-pixel sum is only nx terms.
	rowCoef := make([][3]float64, nx)
	for y := 0; y < h; y++ {
		clear(rowCoef)
		for j := 0; j < ny; j++ {
			fy := cosY[j*h+y]
			for i := 0; i < nx; i++ {
				v := c.Values[j*nx+i]
				rowCoef[i][0] += fy * float64(v[0])
				rowCoef[i][1] += fy * float64(v[1])
				rowCoef[i][2] += fy * float64(v[2])
			}
		}
		for x := 0; x < w; x++ {
			var r, g, b float64
			for i := 0; i < nx; i++ {
				fx := cosX[i*w+x]
				r += fx * rowCoef[i][0]
				g += fx * rowCoef[i][1]
				b += fx * rowCoef[i][2]
			}
			emit(x, y, Linear{clamp01(float32(r)), clamp01(float32(g)), clamp01(float32(b))})
		}
	}
}
