package fri

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"FRIVeil/bfield"
	"FRIVeil/ntt"
	"FRIVeil/transcript"
	"FRIVeil/vcs"
)

func testParams() Params {
	return Params{LogInvRate: 2, NumTestQueries: 8, LogLen: 4, SecurityBits: 16}
}

func randomMessage(rng *rand.Rand, n int) []bfield.Elem {
	msg := make([]bfield.Elem, n)
	for i := range msg {
		msg[i] = bfield.Elem{rng.Uint64(), rng.Uint64()}
	}
	return msg
}

// proveTestInstance encodes a random message and produces a proof plus the
// commitment root.
func proveTestInstance(t *testing.T, params Params, seed int64) (*Proof, vcs.Digest) {
	t.Helper()
	alg := bfield.NewTower128()
	rng := rand.New(rand.NewSource(seed))
	enc, err := ntt.NewEncoder(alg, params.LogLen, params.LogInvRate, 1)
	if err != nil {
		t.Fatal(err)
	}
	code, err := enc.Encode(randomMessage(rng, 1<<params.LogLen))
	if err != nil {
		t.Fatal(err)
	}
	prover, err := NewProver(params, alg, 1)
	if err != nil {
		t.Fatal(err)
	}
	proof, err := prover.Prove(code, transcript.New("fri-test"))
	if err != nil {
		t.Fatal(err)
	}
	tree, err := vcs.Commit(code, 1)
	if err != nil {
		t.Fatal(err)
	}
	return proof, tree.Root()
}

func TestProveVerifyRoundtrip(t *testing.T) {
	params := testParams()
	proof, root := proveTestInstance(t, params, 1)
	if proof.Roots[0] != root {
		t.Fatal("proof root does not match the independent commitment")
	}
	ver, err := NewVerifier(params, bfield.NewTower128())
	if err != nil {
		t.Fatal(err)
	}
	if err := ver.Verify(root, proof, transcript.New("fri-test")); err != nil {
		t.Fatalf("honest proof rejected: %v", err)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	params := testParams()
	proof, root := proveTestInstance(t, params, 2)
	ver, err := NewVerifier(params, bfield.NewTower128())
	if err != nil {
		t.Fatal(err)
	}
	reject := func(name string, mutate func(p *Proof)) {
		raw, err := proof.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		var bad Proof
		if err := bad.UnmarshalBinary(raw); err != nil {
			t.Fatal(err)
		}
		mutate(&bad)
		if err := ver.Verify(root, &bad, transcript.New("fri-test")); !errors.Is(err, ErrVerificationRejected) {
			t.Fatalf("%s: got %v, want ErrVerificationRejected", name, err)
		}
	}
	reject("final value", func(p *Proof) { p.FinalValue[0] ^= 1 })
	reject("leaf pair", func(p *Proof) { p.Queries[3].Rounds[1].Pair[0] ^= 1 })
	reject("sibling hash", func(p *Proof) { p.Queries[0].Rounds[2].Path[0][5] ^= 1 })
	reject("commitment root", func(p *Proof) { p.Roots[0][0] ^= 1 })
	reject("later root", func(p *Proof) { p.Roots[2][0] ^= 1 })
}

func TestVerifyRejectsWrongTranscript(t *testing.T) {
	params := testParams()
	proof, root := proveTestInstance(t, params, 3)
	ver, err := NewVerifier(params, bfield.NewTower128())
	if err != nil {
		t.Fatal(err)
	}
	tr := transcript.New("fri-test")
	tr.Append("extra", []byte{1})
	if err := ver.Verify(root, proof, tr); !errors.Is(err, ErrVerificationRejected) {
		t.Fatalf("got %v, want ErrVerificationRejected", err)
	}
}

func TestVerifyRejectsShapeMismatch(t *testing.T) {
	params := testParams()
	proof, root := proveTestInstance(t, params, 4)
	other := params
	other.NumTestQueries = 16
	ver, err := NewVerifier(other, bfield.NewTower128())
	if err != nil {
		t.Fatal(err)
	}
	if err := ver.Verify(root, proof, transcript.New("fri-test")); !errors.Is(err, ErrMalformedProof) {
		t.Fatalf("got %v, want ErrMalformedProof", err)
	}
}

func TestProverRejectsFarCodeword(t *testing.T) {
	// A corrupted codeword no longer folds down to a constant.
	params := testParams()
	alg := bfield.NewTower128()
	rng := rand.New(rand.NewSource(5))
	enc, err := ntt.NewEncoder(alg, params.LogLen, params.LogInvRate, 1)
	if err != nil {
		t.Fatal(err)
	}
	code, err := enc.Encode(randomMessage(rng, 1<<params.LogLen))
	if err != nil {
		t.Fatal(err)
	}
	code[7][0] ^= 1
	prover, err := NewProver(params, alg, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := prover.Prove(code, transcript.New("fri-test")); err == nil {
		t.Fatal("corrupted codeword proved")
	}
}

func TestFoldReachesBasisCombination(t *testing.T) {
	// Folding an encoded message under challenges r_i reaches the constant
	// sum over k of msg_k times the product of r_i over the set bits of k.
	alg := bfield.NewTower128()
	rng := rand.New(rand.NewSource(6))
	const logLen, logInvRate = 3, 1
	msg := randomMessage(rng, 1<<logLen)
	enc, err := ntt.NewEncoder(alg, logLen, logInvRate, 1)
	if err != nil {
		t.Fatal(err)
	}
	code, err := enc.Encode(msg)
	if err != nil {
		t.Fatal(err)
	}
	chals := randomMessage(rng, logLen)
	for r := 0; r < logLen; r++ {
		code = foldCodeword(enc.Domain(), r, code, chals[r], 1)
	}

	want := alg.Zero()
	for k, c := range msg {
		term := c
		for i := 0; i < logLen; i++ {
			if k>>i&1 == 1 {
				term = alg.Mul(term, chals[i])
			}
		}
		want = alg.Add(want, term)
	}
	for i, v := range code {
		if v != want {
			t.Fatalf("position %d: folded to %v, want %v", i, v, want)
		}
	}
}

func TestProofMarshalRoundtrip(t *testing.T) {
	params := testParams()
	proof, _ := proveTestInstance(t, params, 7)
	raw, err := proof.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	var dec Proof
	if err := dec.UnmarshalBinary(raw); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(proof, &dec); diff != "" {
		t.Fatalf("proof roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestProofUnmarshalRejectsGarbage(t *testing.T) {
	params := testParams()
	proof, _ := proveTestInstance(t, params, 8)
	raw, err := proof.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string][]byte{
		"empty":      {},
		"bad magic":  append([]byte("XXXX"), raw[4:]...),
		"truncated":  raw[:len(raw)-1],
		"extended":   append(append([]byte(nil), raw...), 0),
		"zero shape": append([]byte{'F', 'V', 'P', '1', 0, 0, 0, 0, 0, 0}, raw[10:]...),
	}
	for name, data := range cases {
		var dec Proof
		if err := dec.UnmarshalBinary(data); !errors.Is(err, ErrMalformedProof) {
			t.Fatalf("%s: got %v, want ErrMalformedProof", name, err)
		}
	}
}

func TestParamsValidate(t *testing.T) {
	good := testParams()
	if err := good.Validate(); err != nil {
		t.Fatal(err)
	}
	cases := []Params{
		{LogInvRate: 0, NumTestQueries: 128, LogLen: 10},
		{LogInvRate: 1, NumTestQueries: 0, LogLen: 10},
		{LogInvRate: 1, NumTestQueries: 128, LogLen: 0},
		{LogInvRate: 1, NumTestQueries: 128, LogLen: 128},
		{LogInvRate: 1, NumTestQueries: 16, LogLen: 10},
	}
	for i, p := range cases {
		if err := p.Validate(); !errors.Is(err, ErrInvalidParams) {
			t.Fatalf("case %d: got %v, want ErrInvalidParams", i, err)
		}
	}
	// The default target admits the standard data availability setting.
	std := Params{LogInvRate: 1, NumTestQueries: 128, LogLen: 10}
	if err := std.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestParamsMarshalRoundtrip(t *testing.T) {
	for _, p := range []Params{
		testParams(),
		{LogInvRate: 1, NumTestQueries: 128, LogLen: 10},
	} {
		raw, err := p.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		// The encoding must be a flat CBOR map, not a nested self-encoding.
		if len(raw) > 64 {
			t.Fatalf("%d byte encoding for %+v", len(raw), p)
		}
		var dec Params
		if err := dec.UnmarshalBinary(raw); err != nil {
			t.Fatal(err)
		}
		if dec != p {
			t.Fatalf("got %+v, want %+v", dec, p)
		}
	}
	var bad Params
	if err := bad.UnmarshalBinary([]byte{0xff, 0xff}); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("got %v, want ErrInvalidParams", err)
	}
}
