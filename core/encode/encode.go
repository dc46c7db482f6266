// Package encode maps statistic values onto the chart service's text encodings.
package encode

import (
	"errors"
	"math/bits"
)

// Sentinel errors returned by the encoders.
var (
	ErrInvalidMax      = errors.New("encode: max must be greater than zero")
	ErrValueOutOfRange = errors.New("encode: value outside [0, max]")
)

// Missing is the code for a day without a recorded value.
// The numeric encoders never produce it.
const Missing = "_"

// Codes returned by EncodeExtended when the scaled value leaves [0, 4095].
const (
	AboveRange = ".."
	BelowRange = "__"
)

// Scale limits of the two encodings.
const (
	simpleLevels   = 61
	extendedLevels = 4096
)

// alphabet is the 64-symbol table shared by both encodings.
var alphabet = [64]byte{
	'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M',
	'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z',
	'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm',
	'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z',
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '-', '.',
}

// Encode scales value into [0, 61] and returns its single-character code.
// Callers must keep 0 <= value <= max; out-of-range values are rejected, not clamped.
func Encode(value, max int64) (byte, error) {
	if max <= 0 {
		return 0, ErrInvalidMax
	}
	if value < 0 || value > max {
		return 0, ErrValueOutOfRange
	}
	return alphabet[scale(simpleLevels, uint64(value), uint64(max))], nil
}

// scale returns floor(levels*value/max) without overflowing int64.
// value must not exceed max.
func scale(levels, value, max uint64) uint64 {
	hi, lo := bits.Mul64(levels, value)
	q, _ := bits.Div64(hi, lo, max)
	return q
}

// EncodeExtended scales value into [0, 4095] and returns its two-character code.
// A scaled value above 4095 yields AboveRange and a negative one yields BelowRange.
func EncodeExtended(value, max int64) (string, error) {
	if max <= 0 {
		return "", ErrInvalidMax
	}
	switch {
	case value >= max:
		return AboveRange, nil
	case value < 0:
		// Scaling truncates toward zero, so small negatives scale to 0.
		// uint64(-value) is exact for math.MinInt64 as well.
		hi, lo := bits.Mul64(extendedLevels, uint64(-value))
		if hi > 0 || lo >= uint64(max) {
			return BelowRange, nil
		}
		return "AA", nil
	}
	n := scale(extendedLevels, uint64(value), uint64(max))
	return string([]byte{alphabet[n/64], alphabet[n%64]}), nil
}
