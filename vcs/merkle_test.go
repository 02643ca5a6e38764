package vcs

import (
	"errors"
	"math/rand"
	"testing"

	"FRIVeil/bfield"
)

func randomCode(rng *rand.Rand, n int) []bfield.Elem {
	code := make([]bfield.Elem, n)
	for i := range code {
		code[i] = bfield.Elem{rng.Uint64(), rng.Uint64()}
	}
	return code
}

func TestCommitAndVerifyPaths(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	code := randomCode(rng, 64)
	tree, err := Commit(code, 1)
	if err != nil {
		t.Fatal(err)
	}
	if tree.Depth() != 5 {
		t.Fatalf("depth %d, want 5", tree.Depth())
	}
	root := tree.Root()
	for idx := 0; idx < 32; idx++ {
		leaf := PairLeaf(code[2*idx], code[2*idx+1])
		if !VerifyPath(leaf[:], tree.Path(idx), root, idx) {
			t.Fatalf("leaf %d: valid path rejected", idx)
		}
	}
}

func TestVerifyPathRejectsTampering(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	code := randomCode(rng, 16)
	tree, err := Commit(code, 1)
	if err != nil {
		t.Fatal(err)
	}
	root := tree.Root()
	leaf := PairLeaf(code[6], code[7])
	path := tree.Path(3)

	bad := leaf
	bad[0] ^= 1
	if VerifyPath(bad[:], path, root, 3) {
		t.Fatal("tampered leaf accepted")
	}
	if VerifyPath(leaf[:], path, root, 2) {
		t.Fatal("wrong index accepted")
	}
	badPath := append([]Digest(nil), path...)
	badPath[1][0] ^= 1
	if VerifyPath(leaf[:], badPath, root, 3) {
		t.Fatal("tampered path accepted")
	}
}

func TestCommitParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	code := randomCode(rng, 2048)
	seq, err := Commit(code, 1)
	if err != nil {
		t.Fatal(err)
	}
	par, err := Commit(code, 8)
	if err != nil {
		t.Fatal(err)
	}
	if seq.Root() != par.Root() {
		t.Fatal("parallel commit diverges from sequential")
	}
}

func TestCommitRejectsBadLength(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for _, n := range []int{0, 1, 3, 6, 12} {
		if _, err := Commit(randomCode(rng, n), 1); !errors.Is(err, ErrLeafCount) {
			t.Fatalf("length %d: got %v, want ErrLeafCount", n, err)
		}
	}
}

func TestPairLeafRoundtrip(t *testing.T) {
	a := bfield.Elem{1, 2}
	b := bfield.Elem{3, 4}
	leaf := PairLeaf(a, b)
	c0, c1 := SplitLeaf(leaf)
	if c0 != a || c1 != b {
		t.Fatalf("got (%v, %v), want (%v, %v)", c0, c1, a, b)
	}
}
