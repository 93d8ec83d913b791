// Package trit implements a ternary digit ("trit") and a densely packed
// array of trits.
//
// A trit takes values in {0, 1, 2}. Because 3^40 still fits in a uint64,
// forty trits pack into a single machine word, which is within 5% of the
// information-theoretic minimum of log2(3) ≈ 1.585 bits per digit. The
// packing uses base-3 positional arithmetic rather than bit fields: digit d
// of a packed word w is (w / 3^d) mod 3.
//
// Array is the backing store for the oriented-graph adjacency matrix, where
// each unordered vertex pair and each vertex existence record costs exactly
// one trit.
package trit

import "errors"

// ErrInvalidTrit is returned by [Checked] when the value is outside {0, 1, 2}.
var ErrInvalidTrit = errors.New("trit value must be 0, 1, or 2")

// Trit is a ternary digit in {0, 1, 2}.
//
// The zero value is a valid trit. Constructing a Trit by conversion from an
// untrusted integer should go through [Checked].
type Trit uint8

// Checked converts v to a Trit, returning ErrInvalidTrit if v > 2.
func Checked(v uint8) (Trit, error) {
	if v > 2 {
		return 0, ErrInvalidTrit
	}
	return Trit(v), nil
}

// DigitsPerWord is the number of trits packed into one uint64.
// floor(log3 2^64) = 40.
const DigitsPerWord = 40

// powers[i] = 3^i for i in [0, DigitsPerWord]. Shared by every Array.
var powers [DigitsPerWord + 1]uint64

func init() {
	p := uint64(1)
	for i := range powers {
		powers[i] = p
		if i < DigitsPerWord {
			p *= 3
		}
	}
}

// digitAt extracts digit d of the packed word w.
func digitAt(w uint64, d int) Trit {
	if d < DigitsPerWord-1 {
		w %= powers[d+1]
	}
	return Trit(w / powers[d])
}

// withDigit returns w with digit d replaced by t.
func withDigit(w uint64, d int, t Trit) uint64 {
	var upper uint64
	if d < DigitsPerWord-1 {
		upper = w / powers[d+1] * powers[d+1]
	}
	var lower uint64
	if d > 0 {
		lower = w % powers[d]
	}
	return upper + uint64(t)*powers[d] + lower
}
