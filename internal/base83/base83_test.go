package base83

import (
	"errors"
	"math"
	"testing"
)

func TestEncodeFixed(t *testing.T) {
	tests := []struct {
		v    uint32
		n    int
		want string
	}{
		{0, 4, "0000"},
		{1, 3, "001"},
		{42, 1, "g"},
		{82, 1, "~"},
		{1234, 2, "E="},
		{65540, 4, "09gr"},
		{0xcafeee, 5, "0NMAj"},
		{0xc0decafe, 5, "-FCDo"},
		{math.MaxUint32, 6, "17fd^]"},
	}
	for _, tt := range tests {
		got, err := Encode(tt.v, tt.n)
		if err != nil {
			t.Errorf("Encode(%d, %d): %v", tt.v, tt.n, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Encode(%d, %d) = %q, want %q", tt.v, tt.n, got, tt.want)
		}
		back, err := Decode(got)
		if err != nil {
			t.Errorf("Decode(%q): %v", got, err)
			continue
		}
		if back != tt.v {
			t.Errorf("Decode(%q) = %d, want %d", got, back, tt.v)
		}
	}
}

func TestEncodeOverflow(t *testing.T) {
	if _, err := Encode(83, 1); !errors.Is(err, ErrOverflow) {
		t.Errorf("Encode(83, 1): got %v, want ErrOverflow", err)
	}
	if _, err := Encode(6889, 2); !errors.Is(err, ErrOverflow) {
		t.Errorf("Encode(6889, 2): got %v, want ErrOverflow", err)
	}
	if _, err := Encode(1, 0); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("Encode(1, 0): got %v, want ErrInvalidLength", err)
	}
	if _, err := Encode(1, 7); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("Encode(1, 7): got %v, want ErrInvalidLength", err)
	}
}

func TestAppendFixed_DigitRange(t *testing.T) {
	if got := string(AppendFixed([]byte("x"), 1234, 2)); got != "xE=" {
		t.Errorf("AppendFixed = %q, want %q", got, "xE=")
	}
	for _, n := range []int{-1, MaxDigits + 1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("AppendFixed with %d digits did not panic", n)
				}
			}()
			AppendFixed(nil, 0, n)
		}()
	}
}

func TestRoundTrip(t *testing.T) {
	for n := 1; n <= 4; n++ {
		limit := uint32(pow83[n])
		step := limit/997 + 1
		for v := uint32(0); v < limit; v += step {
			s, err := Encode(v, n)
			if err != nil {
				t.Fatalf("Encode(%d, %d): %v", v, n, err)
			}
			if len(s) != n {
				t.Fatalf("Encode(%d, %d) has length %d", v, n, len(s))
			}
			got, err := Decode(s)
			if err != nil {
				t.Fatalf("Decode(%q): %v", s, err)
			}
			if got != v {
				t.Fatalf("round trip %d -> %q -> %d", v, s, got)
			}
		}
		// top of range
		s, _ := Encode(limit-1, n)
		if got, _ := Decode(s); got != limit-1 {
			t.Errorf("round trip of %d at %d digits gave %d", limit-1, n, got)
		}
	}
}

func TestDecodeInvalid(t *testing.T) {
	for _, s := range []string{"BAD°", " ", "ab\"c", "00/", "\x00"} {
		_, err := Decode(s)
		if !errors.Is(err, ErrInvalidCharacter) {
			t.Errorf("Decode(%q): got %v, want ErrInvalidCharacter", s, err)
			continue
		}
		var ce *CharError
		if !errors.As(err, &ce) {
			t.Errorf("Decode(%q): error is %T, want *CharError", s, err)
		}
	}

	var ce *CharError
	_, err := Decode("00/")
	if errors.As(err, &ce) && ce.Offset != 2 {
		t.Errorf("offset: got %d, want 2", ce.Offset)
	}

	if _, err := Decode(""); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("Decode(\"\"): got %v, want ErrInvalidLength", err)
	}
}

func TestDecodeOverflow(t *testing.T) {
	for _, s := range []string{"18fd^]", "17fd^^", "0000000"} {
		_, err := Decode(s)
		if s == "0000000" {
			if err != nil {
				t.Errorf("Decode(%q): %v", s, err)
			}
			continue
		}
		if !errors.Is(err, ErrOverflow) {
			t.Errorf("Decode(%q): got %v, want ErrOverflow", s, err)
		}
	}
}

func TestAlphabet(t *testing.T) {
	if len(Alphabet) != 83 {
		t.Fatalf("alphabet has %d digits", len(Alphabet))
	}
	seen := map[byte]bool{}
	for i := 0; i < len(Alphabet); i++ {
		c := Alphabet[i]
		if seen[c] {
			t.Errorf("duplicate digit %q", c)
		}
		seen[c] = true
		if !Valid(c) {
			t.Errorf("Valid(%q) = false", c)
		}
	}
	valid := 0
	for c := 0; c < 256; c++ {
		if Valid(byte(c)) {
			valid++
		}
	}
	if valid != 83 {
		t.Errorf("%d bytes accepted, want 83", valid)
	}
}

func BenchmarkDecode(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Decode("17fd^]")
	}
}

func BenchmarkAppendFixed(b *testing.B) {
	buf := make([]byte, 0, MaxDigits)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf = AppendFixed(buf[:0], math.MaxUint32, MaxDigits)
	}
}
