// Package poly builds packed multilinear extensions from raw data and computes
// evaluation claims through the equality-indicator tensor.
package poly

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/bits-and-blooms/bitset"

	"FRIVeil/bfield"
)

// ErrLengthMismatch reports a base-field sequence whose length is not a
// multiple of the extension degree.
var ErrLengthMismatch = errors.New("poly: length is not a multiple of the extension degree")

// ErrDimensionMismatch reports values whose lifted length disagrees with the
// evaluation point arity.
var ErrDimensionMismatch = errors.New("poly: dimension mismatch")

// Expand maps every extension element to its 128 base-field coordinates,
// order preserving: element i occupies bits [128i, 128i+128).
func Expand(seq []bfield.Elem) *bitset.BitSet {
	out := bitset.New(uint(len(seq)) * bfield.Degree)
	for i, e := range seq {
		base := uint(i) * bfield.Degree
		for w := 0; w < 2; w++ {
			limb := e[w]
			for limb != 0 {
				j := bits.TrailingZeros64(limb)
				out.Set(base + uint(w*64+j))
				limb &= limb - 1
			}
		}
	}
	return out
}

// Lift packs every 128 base-field coordinates into one extension element; it
// is the exact left inverse of Expand. It fails with ErrLengthMismatch unless
// the bit length is a multiple of the extension degree.
func Lift(seq *bitset.BitSet) ([]bfield.Elem, error) {
	n := uint(0)
	if seq != nil {
		n = seq.Len()
	}
	if n%bfield.Degree != 0 {
		return nil, fmt.Errorf("%w: %d bits", ErrLengthMismatch, n)
	}
	out := make([]bfield.Elem, n/bfield.Degree)
	for i, ok := seq.NextSet(0); ok && i < n; i, ok = seq.NextSet(i + 1) {
		out[i/bfield.Degree] = out[i/bfield.Degree].SetBit(int(i%bfield.Degree), 1)
	}
	return out, nil
}

// BitsFromBytes expands a byte blob into its base-field sequence, least
// significant bit of each byte first.
func BitsFromBytes(data []byte) *bitset.BitSet {
	out := bitset.New(uint(len(data)) * 8)
	for i, b := range data {
		for j := uint(0); j < 8; j++ {
			if b>>j&1 == 1 {
				out.Set(uint(i)*8 + j)
			}
		}
	}
	return out
}
