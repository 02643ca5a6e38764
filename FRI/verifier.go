package fri

import (
	"fmt"

	"FRIVeil/bfield"
	"FRIVeil/ntt"
	"FRIVeil/transcript"
	"FRIVeil/vcs"
)

// Verifier replays the commit phase of a proof and spot checks its folding
// chain.
type Verifier struct {
	params Params
	dom    *ntt.Domain
}

// NewVerifier validates the parameter set and precomputes the folding domain.
func NewVerifier(params Params, alg bfield.Arith) (*Verifier, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	dom, err := ntt.NewDomain(alg, params.LogDomain())
	if err != nil {
		return nil, err
	}
	return &Verifier{params: params, dom: dom}, nil
}

// Verify checks a proof against the commitment root. The transcript must
// replay the prover's pre-proof history exactly. A nil return means the proof
// is accepted; structural failures map to ErrMalformedProof and check
// failures to ErrVerificationRejected.
func (v *Verifier) Verify(root vcs.Digest, proof *Proof, tr *transcript.Transcript) error {
	m := v.params.LogDomain()
	rounds := v.params.Rounds()
	if proof.LogInvRate != v.params.LogInvRate || proof.LogLen != v.params.LogLen ||
		proof.NumQueries != v.params.NumTestQueries {
		return fmt.Errorf("%w: proof shape (%d, %d, %d) against parameters (%d, %d, %d)",
			ErrMalformedProof, proof.LogInvRate, proof.LogLen, proof.NumQueries,
			v.params.LogInvRate, v.params.LogLen, v.params.NumTestQueries)
	}
	if len(proof.Roots) != rounds || len(proof.Queries) != proof.NumQueries {
		return fmt.Errorf("%w: %d roots, %d queries", ErrMalformedProof, len(proof.Roots), len(proof.Queries))
	}
	if proof.Roots[0] != root {
		return fmt.Errorf("%w: proof is not bound to the commitment", ErrVerificationRejected)
	}

	// Replay the commit phase to recover the fold challenges.
	chals := make([]bfield.Elem, rounds)
	for r := 0; r < rounds; r++ {
		tr.Append("fri/root", proof.Roots[r][:])
		chals[r] = tr.ChallengeElem("fri/fold")
	}
	tr.AppendElem("fri/final", proof.FinalValue)

	alg := v.dom.Arith()
	for qi, q := range proof.Queries {
		if len(q.Rounds) != rounds {
			return fmt.Errorf("%w: query %d has %d rounds", ErrMalformedProof, qi, len(q.Rounds))
		}
		pos := tr.ChallengeIndex("fri/query", 1<<(m-1))
		prev := bfield.Zero
		for r := 0; r < rounds; r++ {
			op := q.Rounds[r]
			if len(op.Path) != pathDepth(m, r) {
				return fmt.Errorf("%w: query %d round %d path depth %d", ErrMalformedProof, qi, r, len(op.Path))
			}
			leaf := pos >> r
			if !vcs.VerifyPath(op.Pair[:], op.Path, proof.Roots[r], int(leaf)) {
				return fmt.Errorf("%w: query %d round %d opening", ErrVerificationRejected, qi, r)
			}
			c0, c1 := vcs.SplitLeaf(op.Pair)
			if r > 0 {
				// The previous fold lands in this pair.
				want := c0
				if pos>>(r-1)&1 == 1 {
					want = c1
				}
				if prev != want {
					return fmt.Errorf("%w: query %d round %d folding chain", ErrVerificationRejected, qi, r)
				}
			}
			t := v.dom.Twiddle(r, leaf)
			prev = foldPair(alg, c0, c1, t, chals[r])
		}
		if prev != proof.FinalValue {
			return fmt.Errorf("%w: query %d final value", ErrVerificationRejected, qi)
		}
	}
	return nil
}
