package profile

import (
	"math"
	"slices"
)

// Profile defines placeholder encoding parameters for a class of assets.
type Profile struct {
	Name    string
	X, Y    int     // components per axis; ignored when Auto is set
	Auto    bool    // derive X and Y from the image aspect ratio
	MaxSize int     // long-edge working size before the DCT; 0 keeps the original
	Punch   float32 // decode-side contrast for previews
}

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {
		Name:    "default",
		X:       4,
		Y:       3,
		MaxSize: 128,
		Punch:   1,
	},
	"square": {
		Name:    "square",
		X:       4,
		Y:       4,
		MaxSize: 128,
		Punch:   1,
	},
	"detailed": {
		Name:    "detailed",
		X:       6,
		Y:       5,
		MaxSize: 256,
		Punch:   1,
	},
	"minimal": {
		Name:    "minimal",
		X:       3,
		Y:       3,
		MaxSize: 64,
		Punch:   1,
	},
	"auto": {
		Name:    "auto",
		X:       4,
		Y:       3,
		Auto:    true,
		MaxSize: 128,
		Punch:   1,
	},
}

// Get returns a profile by name. Falls back to default if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles["default"]
	p.Name = name // preserve requested name
	return p
}

// Names lists the built-in profiles in sorted order.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Components returns the component grid for a w-by-h source.
//
// Auto profiles spend components along the longer axis: the long side
// gets round(4·√ratio) and the short side round(4/√ratio), both clamped
// to [3, 9].  A square image gets 4x4, 16:9 gets 5x3.
func (p Profile) Components(w, h int) (x, y int) {
	if !p.Auto || w <= 0 || h <= 0 {
		return p.X, p.Y
	}
	long, short := max(w, h), min(w, h)
	s := math.Sqrt(float64(long) / float64(short))
	lc := clampComponents(int(math.Round(4 * s)))
	sc := clampComponents(int(math.Round(4 / s)))
	if w >= h {
		return lc, sc
	}
	return sc, lc
}

// WorkingSize returns the dimensions a w-by-h source is downscaled to
// before encoding.  Sources already within MaxSize are left alone, and
// neither side drops below 1.
func (p Profile) WorkingSize(w, h int) (int, int) {
	if p.MaxSize <= 0 || (w <= p.MaxSize && h <= p.MaxSize) {
		return w, h
	}
	if w >= h {
		return p.MaxSize, max(1, int(math.Round(float64(h)*float64(p.MaxSize)/float64(w))))
	}
	return max(1, int(math.Round(float64(w)*float64(p.MaxSize)/float64(h)))), p.MaxSize
}

func clampComponents(n int) int {
	return min(max(n, 3), 9)
}
