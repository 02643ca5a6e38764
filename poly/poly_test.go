package poly

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"FRIVeil/bfield"
)

func randomElems(rng *rand.Rand, n int) []bfield.Elem {
	out := make([]bfield.Elem, n)
	for i := range out {
		out[i] = bfield.Elem{rng.Uint64(), rng.Uint64()}
	}
	return out
}

func TestExpandLiftRoundtrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seq := randomElems(rng, 9)
	lifted, err := Lift(Expand(seq))
	if err != nil {
		t.Fatal(err)
	}
	if len(lifted) != len(seq) {
		t.Fatalf("lifted %d elements, want %d", len(lifted), len(seq))
	}
	for i := range seq {
		if lifted[i] != seq[i] {
			t.Fatalf("element %d: got %v, want %v", i, lifted[i], seq[i])
		}
	}
}

func TestLiftRejectsRaggedLength(t *testing.T) {
	seq := BitsFromBytes([]byte{0xff, 0x01, 0x80})
	if _, err := Lift(seq); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("got %v, want ErrLengthMismatch", err)
	}
}

func TestBitsFromBytesOrder(t *testing.T) {
	seq := BitsFromBytes([]byte{0x05, 0x80})
	want := []uint{0, 2, 15}
	for _, i := range want {
		if !seq.Test(i) {
			t.Fatalf("bit %d not set", i)
		}
	}
	if got := seq.Count(); got != uint(len(want)) {
		t.Fatalf("%d bits set, want %d", got, len(want))
	}
}

func TestBytesToPackedMLE(t *testing.T) {
	data := []byte("packed multilinear extension input")
	m, err := BytesToPackedMLE(data, MinLogLen(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Values) != 1<<m.LogLen {
		t.Fatalf("%d values for log length %d", len(m.Values), m.LogLen)
	}
	// Round trip through the serialized elements.
	var back []byte
	for _, e := range m.Values {
		b := e.Bytes()
		back = append(back, b[:]...)
	}
	if !bytes.Equal(back[:len(data)], data) {
		t.Fatal("packed bytes do not round trip")
	}
	for _, b := range back[len(data):] {
		if b != 0 {
			t.Fatal("padding is not zero")
		}
	}
}

func TestBytesToPackedMLEOverflow(t *testing.T) {
	if _, err := BytesToPackedMLE(make([]byte, 33), 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestEqTensorHypercube(t *testing.T) {
	// At a hypercube vertex the tensor is the indicator of that vertex.
	alg := bfield.NewTower128()
	point := []bfield.Elem{bfield.One, bfield.Zero, bfield.One}
	tensor := EqTensor(alg, point)
	for j := range tensor {
		want := bfield.Zero
		if j == 0b101 {
			want = bfield.One
		}
		if tensor[j] != want {
			t.Fatalf("tensor[%d] = %v, want %v", j, tensor[j], want)
		}
	}
}

func TestEvaluationClaimMultilinearity(t *testing.T) {
	// The claim at r is linear in each coordinate: interpolating the two
	// claims at 0 and 1 in the first coordinate reproduces the claim at r.
	alg := bfield.NewTower128()
	rng := rand.New(rand.NewSource(2))
	values := randomElems(rng, 8)
	point := randomElems(rng, 3)

	at := func(first bfield.Elem) bfield.Elem {
		p := append([]bfield.Elem{first}, point[1:]...)
		c, err := EvaluationClaim(alg, values, p)
		if err != nil {
			t.Fatal(err)
		}
		return c
	}
	c0, c1, cr := at(alg.Zero()), at(alg.One()), at(point[0])
	got := alg.Add(c0, alg.Mul(point[0], alg.Add(c0, c1)))
	if got != cr {
		t.Fatalf("interpolated %v, evaluated %v", got, cr)
	}
}

func TestEvaluationClaimBitsMatchesPacked(t *testing.T) {
	alg := bfield.NewTower128()
	rng := rand.New(rand.NewSource(3))
	values := randomElems(rng, 4)
	point := randomElems(rng, 2)

	want, err := EvaluationClaim(alg, values, point)
	if err != nil {
		t.Fatal(err)
	}
	got, err := EvaluationClaimBits(alg, Expand(values), point)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("bit claim %v, packed claim %v", got, want)
	}
}

func TestEvaluationClaimDimensionMismatch(t *testing.T) {
	alg := bfield.NewTower128()
	if _, err := EvaluationClaim(alg, make([]bfield.Elem, 4), make([]bfield.Elem, 3)); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("got %v, want ErrDimensionMismatch", err)
	}
	m := &PackedMLE{Values: make([]bfield.Elem, 4), LogLen: 2}
	if _, err := m.Evaluate(alg, make([]bfield.Elem, 3)); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("got %v, want ErrDimensionMismatch", err)
	}
}
