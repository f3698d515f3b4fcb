// Package bits supplies the find-last-set/find-first-set primitives the
// TLSF size-class mapper is built on. It adapts math/bits rather than
// reimplementing bit-scan-reverse: bits.Len32/Len64 already compute
// floor(log2(x))+1 with well-defined behavior at zero, so wrapping them is
// the correct amount of code here, not a shortcut.
package bits

import "math/bits"

// Fls32 returns the 0-based position of the highest set bit in x, or -1 if
// x is zero. This is fls(x) = floor(log2(x)) for x > 0, per the TLSF
// glossary.
func Fls32(x uint32) int {
	if x == 0 {
		return -1
	}
	return bits.Len32(x) - 1
}

// FlsSize returns the 0-based position of the highest set bit in x, or -1
// if x is zero. Used for size_t-width values (pool capacities, size-class
// thresholds).
func FlsSize(x uint) int {
	if x == 0 {
		return -1
	}
	return bits.Len(x) - 1
}

// Ffs32 returns the 0-based position of the lowest set bit in x, or -1 if x
// is zero.
func Ffs32(x uint32) int {
	if x == 0 {
		return -1
	}
	return bits.TrailingZeros32(x)
}
