package poly

import (
	"fmt"

	"FRIVeil/bfield"
)

// PackedMLE is a multilinear polynomial in packed form: 2^LogLen extension
// elements, each packing 128 base-field coefficients. The coefficients are
// the polynomial's evaluations over the boolean hypercube in lexicographic
// order.
type PackedMLE struct {
	Values []bfield.Elem
	LogLen int
}

// NewPackedMLE wraps values as a packed multilinear. It fails with
// ErrDimensionMismatch unless len(values) == 2^logLen.
func NewPackedMLE(values []bfield.Elem, logLen int) (*PackedMLE, error) {
	if logLen < 0 || logLen >= 64 || len(values) != 1<<logLen {
		return nil, fmt.Errorf("%w: %d values for log length %d", ErrDimensionMismatch, len(values), logLen)
	}
	return &PackedMLE{Values: values, LogLen: logLen}, nil
}

// BytesToPackedMLE packs a data blob into a multilinear of exactly 2^logLen
// elements. Each group of 16 bytes becomes one element (little endian); the
// tail is zero padded. It fails with ErrDimensionMismatch when the blob does
// not fit.
func BytesToPackedMLE(data []byte, logLen int) (*PackedMLE, error) {
	if logLen < 0 || logLen >= 64 {
		return nil, fmt.Errorf("%w: log length %d", ErrDimensionMismatch, logLen)
	}
	n := (len(data) + bfield.ByteLen - 1) / bfield.ByteLen
	if n > 1<<logLen {
		return nil, fmt.Errorf("%w: %d bytes exceed 2^%d elements", ErrDimensionMismatch, len(data), logLen)
	}
	values := make([]bfield.Elem, 1<<logLen)
	var buf [bfield.ByteLen]byte
	for i := 0; i < n; i++ {
		chunk := data[i*bfield.ByteLen:]
		if len(chunk) >= bfield.ByteLen {
			chunk = chunk[:bfield.ByteLen]
		} else {
			buf = [bfield.ByteLen]byte{}
			copy(buf[:], chunk)
			chunk = buf[:]
		}
		e, err := bfield.FromBytes(chunk)
		if err != nil {
			return nil, err
		}
		values[i] = e
	}
	return &PackedMLE{Values: values, LogLen: logLen}, nil
}

// MinLogLen returns the smallest log length whose packed multilinear can hold
// the blob. The empty blob packs into a single element.
func MinLogLen(dataLen int) int {
	n := (dataLen + bfield.ByteLen - 1) / bfield.ByteLen
	l := 0
	for 1<<l < n {
		l++
	}
	return l
}
