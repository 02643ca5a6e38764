// Package ntt implements the additive number-theoretic transform over B128 in
// the novel polynomial basis, and the Reed-Solomon encoder built on it. The evaluation domain is the GF(2)-span of the monomial basis
// beta_j = x^j, so domain sizes up to 2^128 are addressable.
package ntt

import (
	"errors"
	"fmt"

	"FRIVeil/bfield"
)

// ErrFieldCapacity reports a requested domain larger than the field can
// address.
var ErrFieldCapacity = errors.New("ntt: domain exceeds field capacity")

// ErrDimensionMismatch reports an input whose length disagrees with the
// configured domain.
var ErrDimensionMismatch = errors.New("ntt: dimension mismatch")

// Domain carries the twiddle tables of the additive NTT over a 2^m point
// evaluation set. The same tables drive both the transform butterflies and
// the proximity-test folding, which is what makes the fold a degree-halving
// map on the code.
//
// Row i of the table holds the normalized subspace polynomial evaluations
// snorm[i][j] = W_i(beta_j) / W_i(beta_i), where W_0(x) = x and
// W_{i+1}(x) = W_i(x)^2 + W_i(beta_i) W_i(x). Rows are triangular:
// snorm[i][j] = 0 for j < i and snorm[i][i] = 1.
type Domain struct {
	m     int
	alg   bfield.Arith
	snorm [][]bfield.Elem
}

// NewDomain precomputes the twiddle tables for a 2^logSize point domain. It
// fails with ErrFieldCapacity when logSize exceeds the extension degree.
func NewDomain(alg bfield.Arith, logSize int) (*Domain, error) {
	if logSize < 0 {
		return nil, fmt.Errorf("%w: negative log size %d", ErrDimensionMismatch, logSize)
	}
	if logSize > bfield.Degree {
		return nil, fmt.Errorf("%w: 2^%d points over a %d-bit field", ErrFieldCapacity, logSize, bfield.Degree)
	}
	d := &Domain{m: logSize, alg: alg, snorm: make([][]bfield.Elem, logSize)}

	// w[j] tracks W_i(beta_j) for the current i; W_0 is the identity map.
	w := make([]bfield.Elem, logSize)
	for j := range w {
		w[j] = bfield.Monomial(j)
	}
	for i := 0; i < logSize; i++ {
		inv := alg.Inv(w[i])
		row := make([]bfield.Elem, logSize)
		for j := i; j < logSize; j++ {
			row[j] = alg.Mul(w[j], inv)
		}
		d.snorm[i] = row

		// Advance one level: W_{i+1}(y) = W_i(y) (W_i(y) + W_i(beta_i)).
		wi := w[i]
		for j := i + 1; j < logSize; j++ {
			w[j] = alg.Mul(w[j], alg.Add(w[j], wi))
		}
	}
	return d, nil
}

// LogSize returns the log2 of the domain size.
func (d *Domain) LogSize() int { return d.m }

// Arith returns the field capability the domain was built over.
func (d *Domain) Arith() bfield.Arith { return d.alg }

// Twiddle returns the round-i butterfly constant of the given block: the
// normalized subspace evaluation at the block's coset representative
// y = block << (i+1), that is the subset sum of snorm[i][j] over the set bits
// of y. It panics when round or block is out of range.
func (d *Domain) Twiddle(round int, block uint64) bfield.Elem {
	if round < 0 || round >= d.m {
		panic("ntt: twiddle round out of range")
	}
	row := d.snorm[round]
	t := d.alg.Zero()
	for j := round + 1; block != 0; j++ {
		if j >= d.m {
			panic("ntt: twiddle block out of range")
		}
		if block&1 == 1 {
			t = d.alg.Add(t, row[j])
		}
		block >>= 1
	}
	return t
}

// Transform runs the additive NTT in place: coefficients in the novel basis
// in, evaluations over the domain out. The input length must be the domain
// size.
func (d *Domain) Transform(a []bfield.Elem) error {
	if len(a) != 1<<d.m {
		return fmt.Errorf("%w: %d points over a 2^%d domain", ErrDimensionMismatch, len(a), d.m)
	}
	for i := d.m - 1; i >= 0; i-- {
		d.transformStage(a, i, 0, len(a)>>(i+1))
	}
	return nil
}

// transformStage applies the round-i butterflies to blocks [lo, hi).
func (d *Domain) transformStage(a []bfield.Elem, i, lo, hi int) {
	half := 1 << i
	for blk := lo; blk < hi; blk++ {
		t := d.Twiddle(i, uint64(blk))
		base := blk << (i + 1)
		for j := base; j < base+half; j++ {
			u := d.alg.Add(a[j], d.alg.Mul(t, a[j+half]))
			a[j] = u
			a[j+half] = d.alg.Add(u, a[j+half])
		}
	}
}
