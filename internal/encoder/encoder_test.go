package encoder

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func TestPNGEncoder_Lossless(t *testing.T) {
	src := gradient(32, 24)
	data, err := (&PNGEncoder{}).Encode(src, 0)
	if err != nil {
		t.Fatal(err)
	}
	got, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			want := src.NRGBAAt(x, y)
			if c := color.NRGBAModel.Convert(got.At(x, y)); c != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, c, want)
			}
		}
	}
}

func TestJPEGEncoder(t *testing.T) {
	data, err := (&JPEGEncoder{}).Encode(gradient(32, 24), -5)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 32 || cfg.Height != 24 {
		t.Errorf("decoded %dx%d", cfg.Width, cfg.Height)
	}
}

func TestNormQuality(t *testing.T) {
	for in, want := range map[int]int{-1: DefaultQuality, 0: DefaultQuality, 1: 1, 100: 100, 101: DefaultQuality} {
		if got := normQuality(in); got != want {
			t.Errorf("normQuality(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestRegistry_ForPath(t *testing.T) {
	r := newRegistry(&JPEGEncoder{}, &PNGEncoder{})

	tests := []struct {
		path   string
		format string
	}{
		{"out.png", "png"},
		{"dir/preview.PNG", "png"},
		{"a.jpg", "jpeg"},
		{"a.jpeg", "jpeg"},
	}
	for _, tt := range tests {
		enc, err := r.ForPath(tt.path)
		if err != nil {
			t.Errorf("%s: %v", tt.path, err)
			continue
		}
		if enc.Format() != tt.format {
			t.Errorf("%s: format %q, want %q", tt.path, enc.Format(), tt.format)
		}
	}

	if _, err := r.ForPath("a.webp"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("webp without cwebp: got %v", err)
	}
	if _, err := r.ForPath("noext"); err == nil {
		t.Error("expected error for missing extension")
	}
}

func TestRegistry_SkipsUnavailable(t *testing.T) {
	missing := &externalEncoder{format: "webp", tool: "definitely-not-a-real-encoder-binary"}
	r := newRegistry(missing, &PNGEncoder{})
	if diff := cmp.Diff([]string{"png"}, r.Available()); diff != "" {
		t.Errorf("available (-want +got):\n%s", diff)
	}
	if _, err := missing.Encode(gradient(2, 2), 80); !errors.Is(err, ErrUnavailable) {
		t.Errorf("encode without tool: got %v", err)
	}
}
