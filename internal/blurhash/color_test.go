package blurhash

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSRGBRoundTrip(t *testing.T) {
	for v := 0; v < 256; v++ {
		l := SRGBToLinear(uint8(v))
		if got := LinearToSRGB(l); got != uint8(v) {
			t.Errorf("LinearToSRGB(SRGBToLinear(%d)) = %d", v, got)
		}
	}
}

func TestSRGBToLinear_Curve(t *testing.T) {
	tests := []struct {
		in   uint8
		want float64
	}{
		{0, 0},
		{10, 10.0 / 255 / 12.92}, // linear segment
		{128, math.Pow((128.0/255+0.055)/1.055, 2.4)},
		{255, 1},
	}
	for _, tt := range tests {
		got := float64(SRGBToLinear(tt.in))
		if math.Abs(got-tt.want) > 1e-7 {
			t.Errorf("SRGBToLinear(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLinearToSRGB_Clamps(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{-1, 0},
		{-0.0001, 0},
		{0, 0},
		{1, 255},
		{1.5, 255},
		{float32(math.Inf(1)), 255},
		{float32(math.Inf(-1)), 0},
		{float32(math.NaN()), 0},
	}
	for _, tt := range tests {
		if got := LinearToSRGB(tt.in); got != tt.want {
			t.Errorf("LinearToSRGB(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPixelTypes_IgnoreAlpha(t *testing.T) {
	want := RGB{200, 100, 50}.AsLinear()
	for name, p := range map[string]AsLinear{
		"rgba opaque":      RGBA{200, 100, 50, 255},
		"rgba transparent": RGBA{200, 100, 50, 0},
		"argb opaque":      ARGB(0xffc86432),
		"argb half":        ARGB(0x80c86432),
		"linear":           want,
	} {
		if got := p.AsLinear(); got != want {
			t.Errorf("%s: got %v, want %v", name, got, want)
		}
	}
}

func TestOutputMappers(t *testing.T) {
	c := Linear{1, SRGBToLinear(0x64), 0}
	if got, want := ToRGB(c), (RGB{0xff, 0x64, 0}); got != want {
		t.Errorf("ToRGB: got %v, want %v", got, want)
	}
	if got, want := ToRGBA(c), (RGBA{0xff, 0x64, 0, 0xff}); got != want {
		t.Errorf("ToRGBA: got %v, want %v", got, want)
	}
	if got, want := ToARGB(c), ARGB(0xffff6400); got != want {
		t.Errorf("ToARGB: got %#08x, want %#08x", uint32(got), uint32(want))
	}
}

// collect gathers forEachPixel output into a row-major slice.
func collect(img image.Image) []Linear {
	b := img.Bounds()
	out := make([]Linear, b.Dx()*b.Dy())
	forEachPixel(img, func(x, y int, c Linear) {
		out[y*b.Dx()+x] = c
	})
	return out
}

func TestForEachPixel_FastPathsMatchGeneric(t *testing.T) {
	const w, h = 7, 5
	nrgba := image.NewNRGBA(image.Rect(3, 2, 3+w, 2+h))
	rgba := image.NewRGBA(nrgba.Rect)
	gray := image.NewGray(nrgba.Rect)
	for y := nrgba.Rect.Min.Y; y < nrgba.Rect.Max.Y; y++ {
		for x := nrgba.Rect.Min.X; x < nrgba.Rect.Max.X; x++ {
			c := color.NRGBA{R: uint8(x * 31), G: uint8(y * 47), B: uint8((x + y) * 13), A: 255}
			nrgba.SetNRGBA(x, y, c)
			rgba.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
			gray.SetGray(x, y, color.Gray{Y: uint8(x*y + 9)})
		}
	}

	// wrapping hides the concrete type and forces the At() path
	type generic struct{ image.Image }

	opt := cmpopts.EquateApprox(0, 1e-6)
	if diff := cmp.Diff(collect(generic{nrgba}), collect(nrgba), opt); diff != "" {
		t.Errorf("NRGBA fast path (-generic +fast):\n%s", diff)
	}
	if diff := cmp.Diff(collect(generic{rgba}), collect(rgba), opt); diff != "" {
		t.Errorf("RGBA fast path (-generic +fast):\n%s", diff)
	}
	if diff := cmp.Diff(collect(generic{gray}), collect(gray), opt); diff != "" {
		t.Errorf("Gray fast path (-generic +fast):\n%s", diff)
	}
}

func TestForEachPixel_YCbCr(t *testing.T) {
	img := image.NewYCbCr(image.Rect(0, 0, 8, 6), image.YCbCrSubsampleRatio420)
	for i := range img.Y {
		img.Y[i] = uint8(i * 5)
	}
	for i := range img.Cb {
		img.Cb[i] = uint8(100 + i)
		img.Cr[i] = uint8(150 - i)
	}
	type generic struct{ image.Image }
	// color.YCbCr.RGBA rounds through 16 bits; allow one 8-bit step.
	got, want := collect(img), collect(generic{img})
	for i := range got {
		for ch := 0; ch < 3; ch++ {
			a, b := int(LinearToSRGB(got[i][ch])), int(LinearToSRGB(want[i][ch]))
			if a-b > 1 || b-a > 1 {
				t.Fatalf("pixel %d channel %d: fast %d, generic %d", i, ch, a, b)
			}
		}
	}
}

func TestForEachPixel_Unpremultiplies(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	// 50% alpha, premultiplied red 0x80 means straight red 0xff.
	img.SetRGBA(0, 0, color.RGBA{R: 0x80, A: 0x80})
	got := collect(img)[0]
	if LinearToSRGB(got[0]) != 0xff || got[1] != 0 || got[2] != 0 {
		t.Errorf("got %v, want straight red", got)
	}

	img.SetRGBA(0, 0, color.RGBA{})
	if got := collect(img)[0]; got != (Linear{}) {
		t.Errorf("transparent pixel: got %v, want zero", got)
	}
}
