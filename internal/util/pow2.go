// Package util contains internal helpers for level/span arithmetic.
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import "math/bits"

// IsPowerOfTwo reports whether x is a power of two (> 0).
func IsPowerOfTwo(x uint64) bool {
	return x != 0 && (x&(x-1)) == 0
}

// NextPow2 returns the smallest power of two >= x.
// Special cases:
//   - x == 0  -> 1
//   - if the exact next power would overflow 64 bits, the result is clamped to 1<<63
func NextPow2(x uint64) uint64 {
	if x <= 1 {
		return 1
	}
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	x++
	if x == 0 {
		return 1 << 63
	}
	return x
}

// MaxLevel returns the highest level whose span (unit << level) still leaves
// one bit of headroom in an int64, so box corners never overflow.
// unit must be > 0.
func MaxLevel(unit int64) int {
	// 62 value bits remain after the sign bit and one bit of headroom.
	return 62 - bits.Len64(uint64(unit))
}

// Span returns unit << level. Callers guarantee level <= MaxLevel(unit).
func Span(unit int64, level int) int64 {
	return unit << uint(level)
}

// FloorDiv divides a by b (b > 0) rounding toward negative infinity.
func FloorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && (a < 0) {
		q--
	}
	return q
}
