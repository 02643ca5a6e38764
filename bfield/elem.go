package bfield

// Package bfield implements the 128-bit binary extension field
// B128 = GF(2)[x]/(x^128 + x^7 + x^2 + x + 1) together with the algebraic
// capability interface the protocol engine is written against. The 1-bit base
// field embeds as the constants {Zero, One}.

import (
	"encoding/binary"
	"fmt"
)

// Degree is the extension degree of B128 over the 1-bit base field.
const Degree = 128

// ByteLen is the serialized size of an element.
const ByteLen = 16

// Elem is a B128 element. Bit i (little endian across the two limbs) holds the
// coefficient of x^i.
type Elem [2]uint64

// Zero and One are the images of the two base-field elements under the
// canonical embedding.
var (
	Zero = Elem{0, 0}
	One  = Elem{1, 0}
)

// IsZero reports whether e is the additive identity.
func (e Elem) IsZero() bool {
	return e == Zero
}

// Bit returns coefficient i of e. It panics if i is not in [0, Degree).
func (e Elem) Bit(i int) uint {
	if i < 0 || i >= Degree {
		panic("bfield: bit index out of range")
	}
	return uint(e[i>>6]>>(uint(i)&63)) & 1
}

// SetBit returns a copy of e with coefficient i set to b&1.
func (e Elem) SetBit(i int, b uint) Elem {
	if i < 0 || i >= Degree {
		panic("bfield: bit index out of range")
	}
	mask := uint64(1) << (uint(i) & 63)
	if b&1 == 1 {
		e[i>>6] |= mask
	} else {
		e[i>>6] &^= mask
	}
	return e
}

// Monomial returns x^i. It panics if i is not in [0, Degree).
func Monomial(i int) Elem {
	return Zero.SetBit(i, 1)
}

// Bytes serializes e as 16 little-endian bytes, matching the byte layout of
// the committed data blobs.
func (e Elem) Bytes() [ByteLen]byte {
	var out [ByteLen]byte
	binary.LittleEndian.PutUint64(out[:8], e[0])
	binary.LittleEndian.PutUint64(out[8:], e[1])
	return out
}

// FromBytes deserializes 16 little-endian bytes into an element.
func FromBytes(b []byte) (Elem, error) {
	if len(b) != ByteLen {
		return Zero, fmt.Errorf("bfield: need %d bytes, got %d", ByteLen, len(b))
	}
	return Elem{binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])}, nil
}

// String renders e as a 0x-prefixed 32-digit hex literal (high limb first).
func (e Elem) String() string {
	return fmt.Sprintf("0x%016x%016x", e[1], e[0])
}

// clmul64 is a carry-less 64x64 -> 128 bit multiplication.
func clmul64(a, b uint64) (hi, lo uint64) {
	for i := uint(0); i < 64; i++ {
		if b&(1<<i) != 0 {
			lo ^= a << i
			if i != 0 {
				hi ^= a >> (64 - i)
			}
		}
	}
	return hi, lo
}

// shl128 shifts the 128-bit value (h,l) left by k, 0 < k < 64.
func shl128(h, l uint64, k uint) (uint64, uint64) {
	return h<<k | l>>(64-k), l << k
}

// mulReduce computes a*b mod x^128 + x^7 + x^2 + x + 1.
func mulReduce(a, b Elem) Elem {
	h0, l0 := clmul64(a[0], b[0])
	ha, la := clmul64(a[0], b[1])
	hb, lb := clmul64(a[1], b[0])
	h2, l2 := clmul64(a[1], b[1])

	p0 := l0
	p1 := h0 ^ la ^ lb
	p2 := l2 ^ ha ^ hb
	p3 := h2

	// Fold the high half: (p3,p2)*x^128 == (p3,p2)*(x^7+x^2+x+1).
	r1, r0 := p3, p2
	s1, s0 := shl128(p3, p2, 1)
	t1, t0 := shl128(p3, p2, 2)
	u1, u0 := shl128(p3, p2, 7)
	r0 ^= s0 ^ t0 ^ u0
	r1 ^= s1 ^ t1 ^ u1

	// Bits pushed past position 128 by the shifts fold once more; the second
	// fold cannot overflow (at most 14 bits).
	ov := p3>>63 ^ p3>>62 ^ p3>>57
	r0 ^= ov ^ ov<<1 ^ ov<<2 ^ ov<<7

	return Elem{p0 ^ r0, p1 ^ r1}
}

// invert computes e^(2^128-2) by 127 squarings interleaved with products.
// It returns Zero for the zero element.
func invert(e Elem) Elem {
	if e.IsZero() {
		return Zero
	}
	// e^(2^128-2) = prod_{i=1}^{127} e^(2^i).
	cur := e
	res := One
	for i := 1; i <= 127; i++ {
		cur = mulReduce(cur, cur)
		res = mulReduce(res, cur)
	}
	return res
}
