package blurhash

import (
	"image"
	"image/color"
	"math"
)

// Linear is an RGB colour in linear light.  Channels are unbounded while
// coefficients are being computed and are clamped to [0, 1] on output.
type Linear [3]float32

// AsLinear is implemented by any pixel type the DCT engine can consume.
type AsLinear interface {
	AsLinear() Linear
}

// AsLinear returns c unchanged.
func (c Linear) AsLinear() Linear { return c }

// RGB is an 8-bit sRGB pixel.
type RGB [3]uint8

func (p RGB) AsLinear() Linear {
	return Linear{srgbToLinear[p[0]], srgbToLinear[p[1]], srgbToLinear[p[2]]}
}

// RGBA is an 8-bit non-premultiplied sRGB pixel.  Alpha is ignored.
type RGBA [4]uint8

func (p RGBA) AsLinear() Linear {
	return Linear{srgbToLinear[p[0]], srgbToLinear[p[1]], srgbToLinear[p[2]]}
}

// ARGB is a packed 0xAARRGGBB pixel.  Alpha is ignored.
type ARGB uint32

func (p ARGB) AsLinear() Linear {
	return Linear{
		srgbToLinear[uint8(p>>16)],
		srgbToLinear[uint8(p>>8)],
		srgbToLinear[uint8(p)],
	}
}

// ─── sRGB transfer curve ─────────────────────────────────────

// srgbToLinear is the 8-bit decoding curve, 1 KB.
var srgbToLinear [256]float32

func init() {
	for i := range srgbToLinear {
		v := float64(i) / 255
		if v <= 0.04045 {
			srgbToLinear[i] = float32(v / 12.92)
		} else {
			srgbToLinear[i] = float32(math.Pow((v+0.055)/1.055, 2.4))
		}
	}
}

// SRGBToLinear converts one 8-bit sRGB channel to linear light.
func SRGBToLinear(v uint8) float32 {
	return srgbToLinear[v]
}

// LinearToSRGB converts one linear channel to 8-bit sRGB, clamping first.
func LinearToSRGB(v float32) uint8 {
	l := float64(clamp01(v))
	var c float64
	if l <= 0.0031308 {
		c = l * 12.92
	} else {
		c = 1.055*math.Pow(l, 1/2.4) - 0.055
	}
	return uint8(math.Floor(c*255 + 0.5))
}

// ─── output mappers ──────────────────────────────────────────

// ToLinear passes the clamped colour through.
func ToLinear(c Linear) Linear { return c }

// ToRGB maps a linear colour to 8-bit sRGB.
func ToRGB(c Linear) RGB {
	return RGB{LinearToSRGB(c[0]), LinearToSRGB(c[1]), LinearToSRGB(c[2])}
}

// ToRGBA maps a linear colour to opaque 8-bit sRGBA.
func ToRGBA(c Linear) RGBA {
	return RGBA{LinearToSRGB(c[0]), LinearToSRGB(c[1]), LinearToSRGB(c[2]), 0xff}
}

// ToARGB maps a linear colour to an opaque packed 0xAARRGGBB value.
func ToARGB(c Linear) ARGB {
	return 0xff<<24 |
		ARGB(LinearToSRGB(c[0]))<<16 |
		ARGB(LinearToSRGB(c[1]))<<8 |
		ARGB(LinearToSRGB(c[2]))
}

// ─── image.Image access ─────────────────────────────────────

// forEachPixel calls fn for every pixel of img in row-major order with
// coordinates relative to img.Bounds().Min.  Concrete types from the
// standard decoders are read from their Pix buffers directly.
func forEachPixel(img image.Image, fn func(x, y int, c Linear)) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < w; x++ {
				fn(x, y, Linear{
					srgbToLinear[src.Pix[off]],
					srgbToLinear[src.Pix[off+1]],
					srgbToLinear[src.Pix[off+2]],
				})
				off += 4
			}
		}
	case *image.RGBA:
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < w; x++ {
				fn(x, y, unpremultiply(src.Pix[off], src.Pix[off+1], src.Pix[off+2], src.Pix[off+3]))
				off += 4
			}
		}
	case *image.YCbCr:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				px, py := b.Min.X+x, b.Min.Y+y
				yy := src.Y[src.YOffset(px, py)]
				ci := src.COffset(px, py)
				r, g, bl := color.YCbCrToRGB(yy, src.Cb[ci], src.Cr[ci])
				fn(x, y, Linear{srgbToLinear[r], srgbToLinear[g], srgbToLinear[bl]})
			}
		}
	case *image.Gray:
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < w; x++ {
				v := srgbToLinear[src.Pix[off]]
				fn(x, y, Linear{v, v, v})
				off++
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				fn(x, y, unpremultiply16(r, g, bl, a))
			}
		}
	}
}

func unpremultiply(r, g, b, a uint8) Linear {
	switch a {
	case 0:
		return Linear{}
	case 0xff:
		return Linear{srgbToLinear[r], srgbToLinear[g], srgbToLinear[b]}
	}
	un := func(v uint8) uint8 { return uint8(min((uint32(v)*0xff+uint32(a)/2)/uint32(a), 0xff)) }
	return Linear{srgbToLinear[un(r)], srgbToLinear[un(g)], srgbToLinear[un(b)]}
}

func unpremultiply16(r, g, b, a uint32) Linear {
	if a == 0 {
		return Linear{}
	}
	un := func(v uint32) uint8 { return uint8(min(v*0xffff/a, 0xffff) >> 8) }
	return Linear{srgbToLinear[un(r)], srgbToLinear[un(g)], srgbToLinear[un(b)]}
}

// ─── helpers ──────────────────────────────────────────────────

// clamp01 also maps NaN to 0.
func clamp01(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
