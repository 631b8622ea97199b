// Package fixed decodes and renders the one decimal fixed point numbers found
// in measurement records. Values are carried as integers scaled by ten, so
// "-12.3" is -123.
package fixed

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
)

// ErrValue is returned for a value that is not one of x.x, xx.x, -x.x, -xx.x.
var ErrValue = errors.New("invalid temp")

// Valid reports whether b has one of the accepted shapes.
func Valid(b []byte) bool {
	if len(b) > 0 && b[0] == '-' {
		b = b[1:]
	}
	switch len(b) {
	case 3:
		return isDigit(b[0]) && b[1] == '.' && isDigit(b[2])
	case 4:
		return isDigit(b[0]) && isDigit(b[1]) && b[2] == '.' && isDigit(b[3])
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Parse decodes a value of a shape accepted by Valid. The result for any
// other input is unspecified.
//
// The bytes are loaded as one little endian word and the digits are combined
// with a single multiplication, without branching on the position of the
// decimal point or the sign.
func Parse(b []byte) int64 {
	var buf [8]byte
	copy(buf[:], b)
	word := binary.LittleEndian.Uint64(buf[:])

	// Bit 4 is clear for '-' (0x2d) and '.' (0x2e), set for digits.
	not := ^word
	sign := (int64(not) << (63 - 4)) >> 63 // 0 or -1
	word ^= uint64(sign & ('-' ^ '0'))     // '-' becomes '0'

	// The point sits at byte 1, 2 or 3; move it to byte 3.
	point := bits.TrailingZeros64(not & 0x10101000) // 12, 20 or 28
	word <<= 28 ^ point

	// Keep the digits at bytes 1, 2 and 4 and strip their ASCII high nibble.
	word &= 0x000000CF00CFCF00

	// 100*byte1 + 10*byte2 + byte4 lands in bits [32, 42). Nothing below
	// carries into it, and the 100*byte2 term above has its two low bits clear.
	const mix = 1 + 10<<16 + 100<<24
	number := int64(((word * mix) >> 32) & 0x3FF)
	return number ^ sign - sign
}

// ParseDigits decodes b one digit at a time and rejects anything Valid
// rejects.
func ParseDigits(b []byte) (int64, error) {
	if !Valid(b) {
		return 0, fmt.Errorf("%w: %q", ErrValue, b)
	}
	var neg bool
	if b[0] == '-' {
		neg, b = true, b[1:]
	}
	var v int64
	for _, c := range b {
		if c != '.' {
			v = v*10 + int64(c-'0')
		}
	}
	if neg {
		v = -v
	}
	return v, nil
}

// Append renders v with exactly one fractional digit.
func Append(dst []byte, v int64) []byte {
	if v < 0 {
		dst = append(dst, '-')
		v = -v
	}
	dst = strconv.AppendInt(dst, v/10, 10)
	return append(dst, '.', byte('0'+v%10))
}

// Format is Append to a new string.
func Format(v int64) string {
	return string(Append(nil, v))
}

// Mean returns sum/count rounded half away from zero, in the same scale as
// sum. The division happens in floating point, which is exact for the
// rounding decision as long as |sum| stays below 2^53. Count must not be
// zero.
func Mean(sum int64, count uint64) int64 {
	return int64(math.Round(float64(sum) / float64(count)))
}
