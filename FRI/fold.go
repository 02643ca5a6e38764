package fri

import (
	"golang.org/x/sync/errgroup"

	"FRIVeil/bfield"
	"FRIVeil/ntt"
)

// foldCutoff is the smallest per-worker pair count worth a goroutine.
const foldCutoff = 1024

// foldPair collapses one butterfly pair under a challenge. With t the round
// twiddle of the pair, the output is c0 + (t + chal)(c0 + c1): the evaluation
// at chal of the line interpolating the pair's two coordinates of the
// codeword, which halves the code's message length.
func foldPair(alg bfield.Arith, c0, c1, t, chal bfield.Elem) bfield.Elem {
	return alg.Add(c0, alg.Mul(alg.Add(t, chal), alg.Add(c0, c1)))
}

// foldCodeword folds a round-r codeword in half under chal. Pair j reuses the
// transform's round-r twiddle of block j, so the output is again a codeword
// of the halved domain.
func foldCodeword(dom *ntt.Domain, round int, code []bfield.Elem, chal bfield.Elem, workers int) []bfield.Elem {
	alg := dom.Arith()
	out := make([]bfield.Elem, len(code)/2)
	foldRange := func(lo, hi int) {
		for j := lo; j < hi; j++ {
			t := dom.Twiddle(round, uint64(j))
			out[j] = foldPair(alg, code[2*j], code[2*j+1], t, chal)
		}
	}
	if workers <= 1 || len(out) < workers*foldCutoff {
		foldRange(0, len(out))
		return out
	}
	var g errgroup.Group
	chunk := (len(out) + workers - 1) / workers
	for lo := 0; lo < len(out); lo += chunk {
		lo, hi := lo, min(lo+chunk, len(out))
		g.Go(func() error {
			foldRange(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
