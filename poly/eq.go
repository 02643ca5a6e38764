package poly

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"FRIVeil/bfield"
)

// EqTensor expands a point into the 2^n evaluations of the equality indicator
// eq(point, ·) over the hypercube. Coordinate j of the result is
// prod_i (point_i if bit i of j is set, else 1 + point_i). One doubling pass
// per coordinate; in characteristic two the low half is updated in place by
// adding back the product.
func EqTensor(alg bfield.Arith, point []bfield.Elem) []bfield.Elem {
	tensor := make([]bfield.Elem, 1<<len(point))
	tensor[0] = alg.One()
	for i, p := range point {
		half := 1 << i
		for j := 0; j < half; j++ {
			t := alg.Mul(tensor[j], p)
			tensor[half+j] = t
			tensor[j] = alg.Add(tensor[j], t)
		}
	}
	return tensor
}

// EvaluationClaim evaluates the multilinear extension of values at point by
// inner product with the equality tensor. It fails with ErrDimensionMismatch
// unless len(values) == 2^len(point).
func EvaluationClaim(alg bfield.Arith, values []bfield.Elem, point []bfield.Elem) (bfield.Elem, error) {
	if len(values) != 1<<len(point) {
		return bfield.Zero, fmt.Errorf("%w: %d values against arity %d", ErrDimensionMismatch, len(values), len(point))
	}
	tensor := EqTensor(alg, point)
	acc := alg.Zero()
	for j, v := range values {
		acc = alg.Add(acc, alg.Mul(v, tensor[j]))
	}
	return acc, nil
}

// EvaluationClaimBits evaluates the multilinear extension of a base-field
// sequence at point. The sequence is lifted first, so its bit length must be
// 128 * 2^len(point).
func EvaluationClaimBits(alg bfield.Arith, seq *bitset.BitSet, point []bfield.Elem) (bfield.Elem, error) {
	values, err := Lift(seq)
	if err != nil {
		return bfield.Zero, err
	}
	return EvaluationClaim(alg, values, point)
}

// Evaluate computes the claim of m at point; the point arity must equal the
// packed log length.
func (m *PackedMLE) Evaluate(alg bfield.Arith, point []bfield.Elem) (bfield.Elem, error) {
	if len(point) != m.LogLen {
		return bfield.Zero, fmt.Errorf("%w: arity %d against log length %d", ErrDimensionMismatch, len(point), m.LogLen)
	}
	return EvaluationClaim(alg, m.Values, point)
}
