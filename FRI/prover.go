package fri

import (
	"errors"
	"fmt"
	"runtime"

	"FRIVeil/bfield"
	"FRIVeil/ntt"
	"FRIVeil/transcript"
	"FRIVeil/vcs"
)

// Prover runs the commit and query phases of the proximity test.
type Prover struct {
	params  Params
	dom     *ntt.Domain
	workers int
}

// NewProver validates the parameter set and precomputes the folding domain.
// workers <= 0 selects GOMAXPROCS.
func NewProver(params Params, alg bfield.Arith, workers int) (*Prover, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	dom, err := ntt.NewDomain(alg, params.LogDomain())
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Prover{params: params, dom: dom, workers: workers}, nil
}

// Domain returns the folding domain, shared with the encoder.
func (p *Prover) Domain() *ntt.Domain { return p.dom }

// Prove commits to the codeword, folds it to a constant under transcript
// challenges and opens the folding chain at the transcript's query positions.
// The codeword length must match the parameter domain. The transcript must
// already hold everything the proof is meant to bind, such as the evaluation
// point and claim.
func (p *Prover) Prove(code []bfield.Elem, tr *transcript.Transcript) (*Proof, error) {
	m := p.params.LogDomain()
	if len(code) != 1<<m {
		return nil, fmt.Errorf("%w: %d codeword elements over a 2^%d domain", ErrInvalidParams, len(code), m)
	}
	rounds := p.params.Rounds()

	// Commit phase. Each round commits, draws its fold challenge from the
	// transcript and halves the codeword.
	codewords := make([][]bfield.Elem, rounds)
	trees := make([]*vcs.Tree, rounds)
	roots := make([]vcs.Digest, rounds)
	for r := 0; r < rounds; r++ {
		tree, err := vcs.Commit(code, p.workers)
		if err != nil {
			return nil, err
		}
		codewords[r], trees[r], roots[r] = code, tree, tree.Root()
		tr.Append("fri/root", roots[r][:])
		chal := tr.ChallengeElem("fri/fold")
		code = foldCodeword(p.dom, r, code, chal, p.workers)
	}

	// The fully folded codeword encodes a constant polynomial.
	final := code[0]
	for _, v := range code[1:] {
		if v != final {
			return nil, errors.New("fri: folded codeword is not constant")
		}
	}
	tr.AppendElem("fri/final", final)

	// Query phase.
	queries := make([]QueryProof, p.params.NumTestQueries)
	for qi := range queries {
		q := tr.ChallengeIndex("fri/query", 1<<(m-1))
		openings := make([]RoundOpening, rounds)
		for r := 0; r < rounds; r++ {
			leaf := q >> r
			cw := codewords[r]
			openings[r] = RoundOpening{
				Pair: vcs.PairLeaf(cw[2*leaf], cw[2*leaf+1]),
				Path: trees[r].Path(int(leaf)),
			}
		}
		queries[qi] = QueryProof{Rounds: openings}
	}

	return &Proof{
		LogInvRate: p.params.LogInvRate,
		LogLen:     p.params.LogLen,
		NumQueries: p.params.NumTestQueries,
		Roots:      roots,
		FinalValue: final,
		Queries:    queries,
	}, nil
}
