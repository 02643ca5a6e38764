package bfield

// Arith is the algebraic capability consumed by the protocol engine: addition,
// multiplication, inversion and the base-field embedding. The engine never
// touches element internals beyond this interface, so alternative
// representations (vectorized, reference) can be swapped in.
type Arith interface {
	Zero() Elem
	One() Elem
	Add(a, b Elem) Elem
	Mul(a, b Elem) Elem
	Square(a Elem) Elem
	// Inv returns the multiplicative inverse of a, or Zero when a is zero.
	Inv(a Elem) Elem
	// Embed lifts a base-field element (a single bit) into the extension.
	Embed(bit uint) Elem
}

// Tower128 is the concrete Arith over B128.
type Tower128 struct{}

// NewTower128 returns the standard field capability used by the protocol.
func NewTower128() Tower128 { return Tower128{} }

func (Tower128) Zero() Elem { return Zero }

func (Tower128) One() Elem { return One }

// Add is coefficient-wise XOR (characteristic two).
func (Tower128) Add(a, b Elem) Elem {
	return Elem{a[0] ^ b[0], a[1] ^ b[1]}
}

func (Tower128) Mul(a, b Elem) Elem {
	return mulReduce(a, b)
}

func (Tower128) Square(a Elem) Elem {
	return mulReduce(a, a)
}

func (Tower128) Inv(a Elem) Elem {
	return invert(a)
}

func (Tower128) Embed(bit uint) Elem {
	if bit&1 == 1 {
		return One
	}
	return Zero
}
