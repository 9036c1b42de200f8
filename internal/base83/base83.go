// Package base83 implements the fixed-width base83 digit encoding used by
// every field of a BlurHash string.
package base83

import (
	"errors"
	"fmt"
	"math"
)

// Alphabet lists the 83 digits in ascending value order.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz#$%*+,-.:;=?@[]^_{|}~"

// MaxDigits is the widest encoding that fits a uint32 (83^6 > 2^32).
const MaxDigits = 6

var (
	ErrInvalidCharacter = errors.New("base83: invalid character")
	ErrInvalidLength    = errors.New("base83: invalid length")
	ErrOverflow         = errors.New("base83: value out of range")
)

// CharError reports a byte outside the alphabet.
type CharError struct {
	Offset int
	Char   byte
}

func (e *CharError) Error() string {
	return fmt.Sprintf("base83: invalid character %q at offset %d", e.Char, e.Offset)
}

func (e *CharError) Unwrap() error { return ErrInvalidCharacter }

// digitValue maps an ASCII byte to its digit value, or -1.
var digitValue [256]int8

func init() {
	for i := range digitValue {
		digitValue[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		digitValue[Alphabet[i]] = int8(i)
	}
}

// pow83[n] = 83^n.
var pow83 = [MaxDigits + 1]uint64{1, 83, 6889, 571787, 47458321, 3939040643, 326940373369}

// Valid reports whether c is a base83 digit.
func Valid(c byte) bool {
	return digitValue[c] >= 0
}

// Encode returns v as exactly n digits, most significant first.
func Encode(v uint32, n int) (string, error) {
	if n < 1 || n > MaxDigits {
		return "", fmt.Errorf("%w: %d digits", ErrInvalidLength, n)
	}
	if uint64(v) >= pow83[n] {
		return "", fmt.Errorf("%w: %d does not fit in %d digits", ErrOverflow, v, n)
	}
	return string(AppendFixed(make([]byte, 0, n), v, n)), nil
}

// AppendFixed appends v as exactly n digits to dst. Digits above position n
// are dropped; callers guarantee 1 <= n <= MaxDigits and v < 83^n.
// AppendFixed panics if n is negative or above MaxDigits.
func AppendFixed(dst []byte, v uint32, n int) []byte {
	var buf [MaxDigits]byte
	for i := n - 1; i >= 0; i-- {
		buf[i] = Alphabet[v%83]
		v /= 83
	}
	return append(dst, buf[:n]...)
}

// Decode parses s as a base83 number.
func Decode(s string) (uint32, error) {
	if len(s) == 0 {
		return 0, ErrInvalidLength
	}
	var n uint64
	for i := 0; i < len(s); i++ {
		d := digitValue[s[i]]
		if d < 0 {
			return 0, &CharError{Offset: i, Char: s[i]}
		}
		n = n*83 + uint64(d)
		if n > math.MaxUint32 {
			return 0, ErrOverflow
		}
	}
	return uint32(n), nil
}
